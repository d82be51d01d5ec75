// Package handler holds the gateway's terminal actions and system endpoints.
package handler

import (
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// setContentTypeHeader sets the Content-Type header from the file extension,
// unless one is already present
func setContentTypeHeader(headers http.Header, file string) {
	if headers.Get("Content-Type") != "" {
		return
	}
	ext := filepath.Ext(file)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers.Set("Content-Type", contentType)
	logger.Tracef("inferred Content-Type %s from file extension %s", contentType, ext)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}
