package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

const sessionStoreName = "sessions"

// SessionRecord describes what the gateway has seen of one session.
type SessionRecord struct {
	ID        string    `json:"id"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
	Hits      int64     `json:"hits"`
}

// SessionRegistry records session activity in the "sessions" store.
// Records are held as JSON strings so every provider round-trips them
// the same way.
type SessionRegistry struct {
	mu    sync.Mutex
	store *Store
	now   func() time.Time
}

func NewSessionRegistry(provider StoreProvider) *SessionRegistry {
	return &SessionRegistry{
		store: Open(sessionStoreName, provider),
		now:   time.Now,
	}
}

// Touch records a hit for the session, creating the record on first sight.
func (r *SessionRegistry) Touch(sessionID string) *SessionRecord {
	if sessionID == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	record, found := r.lookup(sessionID)
	if !found {
		record = &SessionRecord{ID: sessionID, FirstSeen: now}
	}
	record.LastSeen = now
	record.Hits++

	data, err := json.Marshal(record)
	if err != nil {
		logger.Errorf("failed to marshal session %s: %v", sessionID, err)
		return record
	}
	r.store.StoreValue(sessionID, string(data))
	return record
}

// Lookup returns the record for the session, if one exists.
func (r *SessionRegistry) Lookup(sessionID string) (*SessionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(sessionID)
}

func (r *SessionRegistry) lookup(sessionID string) (*SessionRecord, bool) {
	value, found := r.store.GetValue(sessionID)
	if !found {
		return nil, false
	}
	raw, ok := value.(string)
	if !ok {
		logger.Warnf("unexpected session value type %T for %s", value, sessionID)
		return nil, false
	}
	var record SessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logger.Warnf("failed to unmarshal session %s: %v", sessionID, err)
		return nil, false
	}
	return &record, true
}
