package exchange

import (
	"errors"
	"net/http"
)

// Response is the result of invoking an action
type Response struct {
	StatusCode int
	Body       []byte
	Meta       *Meta
}

// NewResponse creates a Response with the given status and body
func NewResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Body:       body,
		Meta:       NewMeta(),
	}
}

// Header returns the outgoing headers container
func (rsp *Response) Header() http.Header {
	if rsp.Meta == nil {
		rsp.Meta = NewMeta()
	}
	return rsp.Meta.Header()
}

// WriteToResponseWriter writes the final state to the http.ResponseWriter
func (rsp *Response) WriteToResponseWriter(w http.ResponseWriter, method string) {
	for key, values := range rsp.Header() {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	status := rsp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if rsp.Body != nil && method != http.MethodHead {
		w.Write(rsp.Body)
	}
}

// HTTPError is an error that carries the status code the transport should answer with
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCodeOf returns the status code carried by err, or 500
func StatusCodeOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode > 0 {
		return httpErr.StatusCode
	}
	return http.StatusInternalServerError
}

// WriteError writes a failed invocation to the http.ResponseWriter. No
// response metadata is available for a failure, so no extra headers are set.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusCodeOf(err)
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}
