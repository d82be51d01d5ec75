package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/imposter-project/imposter-gateway/internal/store"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// NewSessionsHandler serves /system/sessions/{id}, returning the recorded
// activity for a session.
func NewSessionsHandler(registry *store.SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sessionID := mux.Vars(r)["id"]
		if sessionID == "" {
			http.Error(w, "Session ID is required", http.StatusBadRequest)
			return
		}

		record, found := registry.Lookup(sessionID)
		if !found {
			logger.Debugf("session not found: %s", sessionID)
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}
