package awslambda

import (
	"bytes"
	"encoding/base64"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// responseRecorder captures what the gateway writes so it can be returned
// as a Lambda event response
type responseRecorder struct {
	Headers       http.Header
	Body          bytes.Buffer
	StatusCode    int
	writtenStatus bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{Headers: make(http.Header)}
}

func (r *responseRecorder) Header() http.Header {
	return r.Headers
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.writtenStatus {
		r.WriteHeader(http.StatusOK)
	}
	return r.Body.Write(data)
}

// WriteHeader records the status. As with net/http, only the first call counts.
func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.writtenStatus {
		return
	}
	r.StatusCode = statusCode
	r.writtenStatus = true
}

func (r *responseRecorder) status() int {
	if !r.writtenStatus {
		return http.StatusOK
	}
	return r.StatusCode
}

// encodeBody returns the body, base64-encoded unless the content type is textual
func (r *responseRecorder) encodeBody() (string, bool) {
	if r.Body.Len() == 0 || isTextual(r.Headers.Get("Content-Type")) {
		return r.Body.String(), false
	}
	return base64.StdEncoding.EncodeToString(r.Body.Bytes()), true
}

func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case strings.HasSuffix(mediaType, "+json"), strings.HasSuffix(mediaType, "+xml"):
		return true
	}
	switch mediaType {
	case "application/json", "application/xml", "application/javascript", "image/svg+xml":
		return true
	}
	return false
}

// toAPIGatewayResponse keeps repeated headers such as Set-Cookie in MultiValueHeaders
func (r *responseRecorder) toAPIGatewayResponse() events.APIGatewayProxyResponse {
	body, encoded := r.encodeBody()
	headers := make(map[string]string, len(r.Headers))
	for key, values := range r.Headers {
		if len(values) > 0 {
			headers[key] = values[len(values)-1]
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        r.status(),
		Headers:           headers,
		MultiValueHeaders: r.Headers.Clone(),
		Body:              body,
		IsBase64Encoded:   encoded,
	}
}

// toFunctionURLResponse moves Set-Cookie values to the Cookies field, where
// Function URLs expect them
func (r *responseRecorder) toFunctionURLResponse() events.LambdaFunctionURLResponse {
	body, encoded := r.encodeBody()
	headers := make(map[string]string, len(r.Headers))
	var cookies []string
	for key, values := range r.Headers {
		if http.CanonicalHeaderKey(key) == "Set-Cookie" {
			cookies = append(cookies, values...)
			continue
		}
		headers[key] = strings.Join(values, ",")
	}
	return events.LambdaFunctionURLResponse{
		StatusCode:      r.status(),
		Headers:         headers,
		Body:            body,
		IsBase64Encoded: encoded,
		Cookies:         cookies,
	}
}
