package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/imposter-project/imposter-gateway/internal/action"
	"github.com/imposter-project/imposter-gateway/internal/config"
	"github.com/imposter-project/imposter-gateway/internal/exchange"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// SessionCookie assigns a session identifier to every request. An identifier
// arriving in the session cookie is reused; otherwise a new one is generated
// and sent back with Set-Cookie once the request succeeds.
type SessionCookie struct {
	cookieName string
	postfix    string
	lenient    bool
	newID      func() string
}

// NewSessionCookie creates the session middleware. A nil config means the defaults.
func NewSessionCookie(cfg *config.SessionConfig) *SessionCookie {
	m := &SessionCookie{
		cookieName: cfg.GetCookieName(),
		postfix:    cfg.GetPostfix(),
		newID:      uuid.NewString,
	}
	if cfg != nil {
		m.lenient = cfg.LenientParsing
	}
	return m
}

func (m *SessionCookie) Install(next action.Action) action.Action {
	return func(c *exchange.Context) *action.Promise {
		cookies, err := m.requestCookies(c)
		if err != nil {
			return action.Reject(&exchange.HTTPError{StatusCode: http.StatusBadRequest, Err: err})
		}

		sessionID := ""
		for _, cookie := range cookies {
			if cookie.Name == m.cookieName {
				sessionID = cookie.Value
			}
		}

		if sessionID != "" {
			c.Meta.Put(exchange.MetaSessionID, sessionID)
			return next(c)
		}

		sessionID = m.newID()
		setCookie := m.buildSetCookie(cookies, sessionID)
		c.Meta.Put(exchange.MetaSessionID, sessionID)
		logger.Tracef("issued session %s - method:%s, path:%s", sessionID, c.Method, c.Path)

		return next(c).Then(func(rsp *exchange.Response) {
			rsp.Header().Set(exchange.HeaderSetCookie, setCookie)
		})
	}
}

func (m *SessionCookie) requestCookies(c *exchange.Context) ([]*Cookie, error) {
	values := c.Meta.Headers.Values(exchange.HeaderCookie)
	if len(values) == 0 {
		return nil, nil
	}
	cookies, err := ParseCookies(strings.Join(values, "; "))
	if err != nil {
		if m.lenient {
			logger.Warnf("ignoring malformed cookie header - method:%s, path:%s: %v", c.Method, c.Path, err)
			return nil, nil
		}
		return nil, err
	}
	return cookies, nil
}

// buildSetCookie re-serialises every other cookie of the request, followed by
// the new session cookie and the configured postfix.
func (m *SessionCookie) buildSetCookie(cookies []*Cookie, sessionID string) string {
	var sb strings.Builder
	sb.Grow(64)
	for _, cookie := range cookies {
		if cookie.Name != m.cookieName {
			sb.WriteString(cookie.String())
			sb.WriteByte(',')
		}
	}
	sb.WriteString(m.cookieName)
	sb.WriteString(`="`)
	sb.WriteString(sessionID)
	sb.WriteByte('"')
	sb.WriteString(m.postfix)
	return sb.String()
}
