package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/imposter-project/imposter-gateway/internal/action"
	"github.com/imposter-project/imposter-gateway/internal/config"
	"github.com/imposter-project/imposter-gateway/internal/exchange"
	"github.com/imposter-project/imposter-gateway/internal/handler"
	"github.com/imposter-project/imposter-gateway/internal/middleware"
	"github.com/imposter-project/imposter-gateway/internal/resource"
	"github.com/imposter-project/imposter-gateway/internal/store"
	"github.com/imposter-project/imposter-gateway/internal/tlsconf"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gateway holds the state shared by every adapter: the resolver, the
// composed request pipeline and the optional session registry and metrics.
type Gateway struct {
	Config   *config.GatewayConfig
	Resolver *resource.Resolver
	Sessions *store.SessionRegistry
	Registry *prometheus.Registry
	TLS      *tls.Config

	handler action.Action
}

// InitialiseGateway performs common initialisation tasks for all adapters
func InitialiseGateway() (*Gateway, error) {
	logger.Infoln("starting gateway...")
	startTime := time.Now()

	cfg, err := config.LoadGatewayConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	gw, err := NewGateway(cfg)
	if err != nil {
		return nil, err
	}
	logger.Infof("startup completed in %v", time.Since(startTime))
	return gw, nil
}

// NewGateway builds the resolver, store and pipeline described by cfg
func NewGateway(cfg *config.GatewayConfig) (*Gateway, error) {
	gw := &Gateway{Config: cfg}

	opts := []resource.Option{
		resource.WithCapacity(cfg.Static.CacheCapacity),
		resource.WithSearchPath(searchPath(cfg)...),
	}
	if cfg.Metrics {
		gw.Registry = prometheus.NewRegistry()
		gw.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, resource.WithMetrics(resource.NewMetrics(gw.Registry)))
	}
	gw.Resolver = resource.NewResolver(opts...)

	pipeline := middleware.NewPipeline()
	if cfg.Session != nil && cfg.Session.Tracking {
		provider, err := store.NewStoreProvider(cfg.Store)
		if err != nil {
			return nil, err
		}
		gw.Sessions = store.NewSessionRegistry(provider)
		pipeline.Use(middleware.NewSessionTracker(gw.Sessions))
	}
	if cfg.Cors != nil {
		pipeline.Use(middleware.NewCors(cfg.Cors))
	}
	if cfg.Session != nil {
		pipeline.Use(middleware.NewSessionCookie(cfg.Session))
	}
	gw.handler = pipeline.Wrap(handler.NewStaticHandler(gw.Resolver, cfg.Static))
	logger.Debugf("installed %d middleware(s)", pipeline.Len())

	if cfg.TLS != nil && cfg.TLS.Keystore != "" {
		tlsConfig, err := gw.loadTLS(cfg.TLS)
		if err != nil {
			return nil, err
		}
		gw.TLS = tlsConfig
	}
	return gw, nil
}

func searchPath(cfg *config.GatewayConfig) []string {
	dirs := append([]string(nil), cfg.Static.SearchPath...)
	if cfg.ConfigDir != "" {
		dirs = append(dirs, cfg.ConfigDir)
	}
	return dirs
}

func (gw *Gateway) loadTLS(t *config.TLSConfig) (*tls.Config, error) {
	var clientCAs *x509.CertPool
	if t.ClientCAFile != "" {
		pool, err := tlsconf.LoadCertPool(gw.Resolver, t.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client CA: %w", err)
		}
		clientCAs = pool
	}
	tlsConfig, err := tlsconf.Load(gw.Resolver, tlsconf.Options{
		KeystorePath: t.Keystore,
		Password:     t.Password,
		StoreType:    t.StoreType,
		ClientCAs:    clientCAs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	return tlsConfig, nil
}

// Router returns the system endpoints plus a catch-all routed through the pipeline
func (gw *Gateway) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/system/status", handler.HandleStatusRequest)
	if gw.Registry != nil {
		r.Handle("/system/metrics", promhttp.HandlerFor(gw.Registry, promhttp.HandlerOpts{}))
	}
	if gw.Sessions != nil {
		r.Handle("/system/sessions/{id}", handler.NewSessionsHandler(gw.Sessions))
	}
	r.PathPrefix("/").Handler(gw)
	return r
}

// ServeHTTP invokes the pipeline once for the request and writes its outcome
func (gw *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			logger.Errorf("failed to read request body: %v", err)
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
	}

	c := exchange.NewContextFromRequest(r, body)
	logger.Tracef("request: %s %s", r.Method, r.URL.Path)

	rsp, err := gw.handler(c).Await(r.Context())
	if err != nil {
		logger.Warnf("request failed - method:%s, path:%s: %v", r.Method, r.URL.Path, err)
		exchange.WriteError(w, err)
		return
	}
	rsp.WriteToResponseWriter(w, r.Method)
	logger.Debugf("%s %s -> %d", r.Method, r.URL.Path, rsp.StatusCode)
}
