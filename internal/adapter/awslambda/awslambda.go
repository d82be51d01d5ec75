package awslambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/imposter-project/imposter-gateway/internal/adapter"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// LambdaAdapter represents the AWS Lambda runtime adapter
type LambdaAdapter struct {
	handler http.Handler
}

// NewAdapter creates a new Lambda adapter instance
func NewAdapter(gw *adapter.Gateway) adapter.Adapter {
	return &LambdaAdapter{handler: gw.Router()}
}

// Start begins the Lambda runtime. It does not return.
func (a *LambdaAdapter) Start() error {
	lambda.Start(a.HandleLambdaRequest)
	return nil
}

// HandleLambdaRequest handles API Gateway proxy and Function URL events
func (a *LambdaAdapter) HandleLambdaRequest(ctx context.Context, req json.RawMessage) (interface{}, error) {
	var apiGatewayReq events.APIGatewayProxyRequest
	var functionURLReq events.LambdaFunctionURLRequest

	if err := json.Unmarshal(req, &apiGatewayReq); err == nil && apiGatewayReq.HTTPMethod != "" {
		return a.handleAPIGatewayProxyRequest(ctx, apiGatewayReq), nil
	} else if err := json.Unmarshal(req, &functionURLReq); err == nil && functionURLReq.RequestContext.HTTP.Method != "" {
		return a.handleFunctionURLRequest(ctx, functionURLReq), nil
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest, Body: "Unsupported request type"}, nil
}

func (a *LambdaAdapter) handleAPIGatewayProxyRequest(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	httpReq, err := newHTTPRequest(ctx, req.HTTPMethod, req.Path, req.Body, req.IsBase64Encoded)
	if err != nil {
		logger.Errorf("failed to convert request: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Body: "Failed to convert request"}
	}
	for key, values := range req.MultiValueHeaders {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, value := range req.Headers {
		if _, exists := req.MultiValueHeaders[key]; !exists {
			httpReq.Header.Set(key, value)
		}
	}
	httpReq.URL.RawQuery = encodeQuery(req.MultiValueQueryStringParameters, req.QueryStringParameters)

	recorder := a.serve(httpReq)
	return recorder.toAPIGatewayResponse()
}

func (a *LambdaAdapter) handleFunctionURLRequest(ctx context.Context, req events.LambdaFunctionURLRequest) events.LambdaFunctionURLResponse {
	httpReq, err := newHTTPRequest(ctx, req.RequestContext.HTTP.Method, req.RawPath, req.Body, req.IsBase64Encoded)
	if err != nil {
		logger.Errorf("failed to convert request: %v", err)
		return events.LambdaFunctionURLResponse{StatusCode: http.StatusInternalServerError, Body: "Failed to convert request"}
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	// Function URLs deliver cookies separately from the headers
	if len(req.Cookies) > 0 {
		httpReq.Header.Set("Cookie", strings.Join(req.Cookies, "; "))
	}
	httpReq.URL.RawQuery = req.RawQueryString

	recorder := a.serve(httpReq)
	return recorder.toFunctionURLResponse()
}

func (a *LambdaAdapter) serve(req *http.Request) *responseRecorder {
	logger.Tracef("request: %s %s", req.Method, req.URL.String())
	recorder := newResponseRecorder()
	a.handler.ServeHTTP(recorder, req)
	logger.Tracef("response: %d (%d bytes)", recorder.status(), recorder.Body.Len())
	return recorder
}

func newHTTPRequest(ctx context.Context, method, path, body string, base64Encoded bool) (*http.Request, error) {
	if path == "" {
		path = "/"
	}
	payload := body
	if base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 body: %w", err)
		}
		payload = string(decoded)
	}
	return http.NewRequestWithContext(ctx, method, path, strings.NewReader(payload))
}

func encodeQuery(multi map[string][]string, single map[string]string) string {
	values := url.Values{}
	for key, vs := range multi {
		for _, v := range vs {
			values.Add(key, v)
		}
	}
	for key, v := range single {
		if _, exists := multi[key]; !exists {
			values.Set(key, v)
		}
	}
	return values.Encode()
}
