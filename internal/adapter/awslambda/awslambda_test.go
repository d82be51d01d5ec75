package awslambda

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/imposter-project/imposter-gateway/internal/adapter"
	"github.com/imposter-project/imposter-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler reports what the gateway would have received
func echoHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
		"cookie": r.Header.Get("Cookie"),
		"body":   string(body),
	})
}

func invoke(t *testing.T, a *LambdaAdapter, event interface{}) interface{} {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	rsp, err := a.HandleLambdaRequest(context.Background(), raw)
	require.NoError(t, err)
	return rsp
}

func decodeEcho(t *testing.T, body string) map[string]string {
	t.Helper()
	var echoed map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &echoed))
	return echoed
}

func TestHandleLambdaRequest_APIGateway(t *testing.T) {
	a := &LambdaAdapter{handler: http.HandlerFunc(echoHandler)}

	rsp := invoke(t, a, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodPost,
		Path:                  "/things",
		Headers:               map[string]string{"Cookie": "a=1"},
		QueryStringParameters: map[string]string{"q": "x"},
		Body:                  "eyJrIjoidiJ9",
		IsBase64Encoded:       true,
	})

	apiRsp, ok := rsp.(events.APIGatewayProxyResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, apiRsp.StatusCode)

	echoed := decodeEcho(t, apiRsp.Body)
	assert.Equal(t, http.MethodPost, echoed["method"])
	assert.Equal(t, "/things", echoed["path"])
	assert.Equal(t, "q=x", echoed["query"])
	assert.Equal(t, "a=1", echoed["cookie"])
	assert.Equal(t, `{"k":"v"}`, echoed["body"])
}

func TestHandleLambdaRequest_FunctionURL(t *testing.T) {
	a := &LambdaAdapter{handler: http.HandlerFunc(echoHandler)}

	event := events.LambdaFunctionURLRequest{
		RawPath:        "/index.html",
		RawQueryString: "a=b",
		Cookies:        []string{"JSESSIONID=abc", "theme=dark"},
		Body:           "hello",
	}
	event.RequestContext.HTTP.Method = http.MethodGet

	rsp := invoke(t, a, event)
	urlRsp, ok := rsp.(events.LambdaFunctionURLResponse)
	require.True(t, ok)

	echoed := decodeEcho(t, urlRsp.Body)
	assert.Equal(t, "/index.html", echoed["path"])
	assert.Equal(t, "a=b", echoed["query"])
	assert.Equal(t, "JSESSIONID=abc; theme=dark", echoed["cookie"])
	assert.Equal(t, "hello", echoed["body"])
}

func TestHandleLambdaRequest_Unsupported(t *testing.T) {
	a := &LambdaAdapter{handler: http.HandlerFunc(echoHandler)}
	rsp := invoke(t, a, map[string]string{"hello": "world"})

	urlRsp, ok := rsp.(events.LambdaFunctionURLResponse)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, urlRsp.StatusCode)
}

func TestHandleLambdaRequest_Gateway(t *testing.T) {
	gw, err := adapter.NewGateway(&config.GatewayConfig{
		Cors:    config.NewCorsConfig(),
		Session: &config.SessionConfig{},
		Static:  config.StaticConfig{Root: "www", IndexFile: "index.html"},
	})
	require.NoError(t, err)
	a := NewAdapter(gw).(*LambdaAdapter)

	event := events.LambdaFunctionURLRequest{RawPath: "/"}
	event.RequestContext.HTTP.Method = http.MethodGet

	urlRsp := invoke(t, a, event).(events.LambdaFunctionURLResponse)
	assert.Equal(t, http.StatusOK, urlRsp.StatusCode)
	assert.Contains(t, urlRsp.Body, "Gateway is running")
	assert.Equal(t, "*", urlRsp.Headers["Access-Control-Allow-Origin"])
	require.Len(t, urlRsp.Cookies, 1)
	assert.True(t, strings.HasPrefix(urlRsp.Cookies[0], `JSESSIONID="`))

	event.Cookies = []string{`JSESSIONID="known"`}
	urlRsp = invoke(t, a, event).(events.LambdaFunctionURLResponse)
	assert.Empty(t, urlRsp.Cookies)
}
