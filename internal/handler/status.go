package handler

import (
	"encoding/json"
	"net/http"

	"github.com/imposter-project/imposter-gateway/internal/system"
	"github.com/imposter-project/imposter-gateway/internal/version"
)

var (
	// cachedStatusResponse holds the pre-marshalled JSON response
	cachedStatusResponse []byte

	// instanceID identifies this process in status responses
	instanceID = system.GenerateInstanceID()
)

func init() {
	// Build the status body once at package initialisation
	response := struct {
		Status   string `json:"status"`
		Version  string `json:"version"`
		Instance string `json:"instance"`
	}{
		Status:   "ok",
		Version:  version.Version,
		Instance: instanceID,
	}

	// Marshal the response once
	var err error
	cachedStatusResponse, err = json.Marshal(response)
	if err != nil {
		// Only plain strings are marshalled, so this fails at startup or never
		panic("failed to marshal status response: " + err.Error())
	}
}

// HandleStatusRequest handles the /system/status endpoint
func HandleStatusRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(cachedStatusResponse)
}
