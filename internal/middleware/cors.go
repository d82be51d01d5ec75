package middleware

import (
	"strconv"

	"github.com/imposter-project/imposter-gateway/internal/action"
	"github.com/imposter-project/imposter-gateway/internal/config"
	"github.com/imposter-project/imposter-gateway/internal/exchange"
)

// Cors adds static CORS headers to successful responses
type Cors struct {
	origin         *string
	methods        *string
	allowedHeaders *string
	exposedHeaders *string
	credentials    bool
	maxAge         int
}

// NewCors creates the CORS middleware. A nil config means the defaults.
func NewCors(cfg *config.CorsConfig) *Cors {
	if cfg == nil {
		cfg = config.NewCorsConfig()
	}
	return &Cors{
		origin:         clone(cfg.Origin),
		methods:        clone(cfg.Methods),
		allowedHeaders: clone(cfg.AllowedHeaders),
		exposedHeaders: clone(cfg.ExposedHeaders),
		credentials:    cfg.Credentials,
		maxAge:         cfg.MaxAge,
	}
}

func (m *Cors) Install(next action.Action) action.Action {
	return func(c *exchange.Context) *action.Promise {
		return next(c).Then(m.addCORSHeaders)
	}
}

// addCORSHeaders adds CORS headers to the response
func (m *Cors) addCORSHeaders(rsp *exchange.Response) {
	headers := rsp.Header()

	if m.origin != nil {
		headers.Set("Access-Control-Allow-Origin", *m.origin)
	}
	if m.methods != nil {
		headers.Set("Access-Control-Allow-Methods", *m.methods)
	}
	if m.allowedHeaders != nil {
		headers.Set("Access-Control-Allow-Headers", *m.allowedHeaders)
	}
	if m.exposedHeaders != nil {
		headers.Set("Access-Control-Expose-Headers", *m.exposedHeaders)
	}
	headers.Set("Access-Control-Allow-Credentials", strconv.FormatBool(m.credentials))
	if m.maxAge > 0 {
		headers.Set("Access-Control-Max-Age", strconv.Itoa(m.maxAge))
	}
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
