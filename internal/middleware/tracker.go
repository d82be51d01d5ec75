package middleware

import (
	"github.com/imposter-project/imposter-gateway/internal/action"
	"github.com/imposter-project/imposter-gateway/internal/exchange"
	"github.com/imposter-project/imposter-gateway/internal/store"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// SessionTracker records each successful request against the session
// identifier SessionCookie assigned to the context. Requests without one
// are not recorded.
type SessionTracker struct {
	registry *store.SessionRegistry
}

func NewSessionTracker(registry *store.SessionRegistry) *SessionTracker {
	return &SessionTracker{registry: registry}
}

func (m *SessionTracker) Install(next action.Action) action.Action {
	return func(c *exchange.Context) *action.Promise {
		return next(c).Then(func(rsp *exchange.Response) {
			sessionID := c.SessionID()
			if sessionID == "" {
				return
			}
			record := m.registry.Touch(sessionID)
			if record != nil && logger.IsTraceEnabled() {
				logger.Tracef("session %s seen %d time(s)", sessionID, record.Hits)
			}
		})
	}
}
