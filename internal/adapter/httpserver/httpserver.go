package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/imposter-project/imposter-gateway/internal/adapter"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
)

// HTTPAdapter represents the HTTP server runtime adapter
type HTTPAdapter struct {
	gw *adapter.Gateway
}

// NewAdapter creates a new HTTP server adapter instance
func NewAdapter(gw *adapter.Gateway) adapter.Adapter {
	return &HTTPAdapter{gw: gw}
}

// Start begins listening for requests
func (a *HTTPAdapter) Start() error {
	srv := newServer(a.gw)
	if srv.TLSConfig != nil {
		logger.Infof("server is listening on %s (TLS)...", srv.Addr)
		err := srv.ListenAndServeTLS("", "")
		return ignoreClosed(err)
	}
	logger.Infof("server is listening on %s...", srv.Addr)
	return ignoreClosed(srv.ListenAndServe())
}

// newServer creates the http.Server for the gateway
func newServer(gw *adapter.Gateway) *http.Server {
	return &http.Server{
		Addr:              ":" + gw.Config.ServerPort,
		Handler:           gw.Router(),
		TLSConfig:         gw.TLS,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog: logger.Named("http").StandardLogger(&hclog.StandardLoggerOptions{
			InferLevels: true,
		}),
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
