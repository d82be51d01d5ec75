package exchange

import (
	"context"
	"net/http"
)

const (
	// HeaderCookie is the inbound header carrying session cookies
	HeaderCookie = "Cookie"
	// HeaderSetCookie is the outbound header assigning session cookies
	HeaderSetCookie = "Set-Cookie"
	// MetaSessionID is the metadata key holding the request's session identifier
	MetaSessionID = "sessionID"
)

// Context holds the data for a single request. It is owned by the request's
// execution and never shared between requests.
type Context struct {
	context.Context

	Method string
	Path   string
	Params map[string]string
	Body   []byte
	Meta   *Meta
}

// NewContext creates a Context for the given method and path, with empty metadata
func NewContext(ctx context.Context, method, path string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context: ctx,
		Method:  method,
		Path:    path,
		Params:  make(map[string]string),
		Meta:    NewMeta(),
	}
}

// NewContextFromRequest creates a Context from an HTTP request, copying its
// headers into the request metadata and its query string into Params.
func NewContextFromRequest(r *http.Request, body []byte) *Context {
	c := NewContext(r.Context(), r.Method, r.URL.Path)
	for key, values := range r.Header {
		for _, v := range values {
			c.Meta.Headers.Add(key, v)
		}
	}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			c.Params[key] = values[0]
		}
	}
	c.Body = body
	return c
}

// SessionID returns the session identifier stored by the session middleware, if any
func (c *Context) SessionID() string {
	return c.Meta.String(MetaSessionID)
}
