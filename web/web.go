// Package web provides the HTTP surface of the gateway: the transaction
// endpoint, health, and metrics. It is glue around the core services and
// owns the mapping from typed authorization errors to wire responses.
package web

import (
	"net/http"
	"time"

	"github.com/artpar/digigate/adapters/clock"
	"github.com/artpar/digigate/adapters/metrics"
	"github.com/artpar/digigate/app"
	"github.com/artpar/digigate/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Counter exposes the record count of a store (for health reporting).
type Counter interface {
	Count() int
}

// Handler provides the gateway HTTP endpoints.
type Handler struct {
	gateway         *app.GatewayService
	members         Counter
	modules         Counter
	products        Counter
	metrics         *metrics.Collector
	clock           ports.Clock
	defaultProvider string
	logger          zerolog.Logger
	startTime       time.Time
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Gateway         *app.GatewayService
	Members         Counter
	Modules         Counter
	Products        Counter
	Metrics         *metrics.Collector // nil disables metric recording
	Clock           ports.Clock        // nil falls back to the real clock
	DefaultProvider string
	Logger          zerolog.Logger
}

// New creates the web handler.
func New(deps Deps) *Handler {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	return &Handler{
		gateway:         deps.Gateway,
		members:         deps.Members,
		modules:         deps.Modules,
		products:        deps.Products,
		metrics:         deps.Metrics,
		clock:           clk,
		defaultProvider: deps.DefaultProvider,
		logger:          deps.Logger,
		startTime:       clk.Now(),
	}
}

// RouterOptions configures optional routes.
type RouterOptions struct {
	MetricsEnabled bool
	MetricsPath    string
}

// Router builds the chi router for the gateway.
func (h *Handler) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/trx", h.handleTrx)
		r.Post("/{provider}/trx", h.handleTrx)
	})

	if opts.MetricsEnabled {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	return r
}
