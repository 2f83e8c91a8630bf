// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artpar/digigate/adapters/clock"
	providerhttp "github.com/artpar/digigate/adapters/http"
	"github.com/artpar/digigate/adapters/idgen"
	"github.com/artpar/digigate/adapters/metrics"
	"github.com/artpar/digigate/app"
	"github.com/artpar/digigate/config"
	"github.com/artpar/digigate/domain/member"
	"github.com/artpar/digigate/domain/module"
	"github.com/artpar/digigate/domain/product"
	"github.com/artpar/digigate/store"
	"github.com/artpar/digigate/watcher"
	"github.com/artpar/digigate/web"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	Members  *store.Store[member.Member]
	Modules  *store.Store[module.Module]
	Products *store.Store[product.Product]

	watchers []*watcher.Watcher
	stopCh   chan struct{}
}

// New creates and initializes the application from configuration.
// The initial load of all three record stores must succeed.
func New(cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg.Logging)
	logger.Info().Msg("initializing digigate")

	a := &App{
		Logger: logger,
		Config: cfg,
		stopCh: make(chan struct{}),
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	if err := a.initStores(); err != nil {
		return nil, err
	}
	a.initWatchers()
	a.initServer()

	return a, nil
}

// NewLogger builds the root logger from logging configuration.
func NewLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func (a *App) initStores() error {
	var err error

	a.Members, err = store.New[member.Member](a.Config.MembersFile(), "members", a.Logger)
	if err != nil {
		return fmt.Errorf("members store: %w", err)
	}
	a.Modules, err = store.New[module.Module](a.Config.ModulesFile(), "modules", a.Logger)
	if err != nil {
		return fmt.Errorf("modules store: %w", err)
	}
	a.Products, err = store.New[product.Product](a.Config.ProductsFile(), "products", a.Logger)
	if err != nil {
		return fmt.Errorf("products store: %w", err)
	}

	if a.Metrics != nil {
		a.Members.OnReload(func(ok bool, count int) { a.Metrics.ObserveStoreReload("members", ok, count) })
		a.Modules.OnReload(func(ok bool, count int) { a.Metrics.ObserveStoreReload("modules", ok, count) })
		a.Products.OnReload(func(ok bool, count int) { a.Metrics.ObserveStoreReload("products", ok, count) })
	}

	return nil
}

func (a *App) initWatchers() {
	if !*a.Config.Data.Watch {
		a.Logger.Info().Msg("file watching disabled, reload via SIGHUP only")
		return
	}

	debounce := a.Config.Data.Debounce
	a.watchers = []*watcher.Watcher{
		watcher.NewWithDebounce(a.Members.Path(), func() { a.Members.Reload() }, debounce, a.Logger),
		watcher.NewWithDebounce(a.Modules.Path(), func() { a.Modules.Reload() }, debounce, a.Logger),
		watcher.NewWithDebounce(a.Products.Path(), func() { a.Products.Reload() }, debounce, a.Logger),
	}
}

func (a *App) initServer() {
	memberAuth := app.NewMemberAuthService(a.Members, a.Logger)
	productAuth := app.NewProductAuthService(a.Products, a.Logger)
	moduleAuth := app.NewModuleAuthService(a.Modules, a.Logger)
	builder := app.NewQueryBuilder(a.Products, a.Modules, idgen.UUID{}, a.Logger)

	upstream := providerhttp.NewProviderClient(providerhttp.ProviderConfig{
		UserAgent:       a.Config.Upstream.UserAgent,
		MaxIdleConns:    a.Config.Upstream.MaxIdleConns,
		IdleConnTimeout: a.Config.Upstream.IdleConnTimeout,
	}, a.Logger)

	gateway := app.NewGatewayService(app.GatewayDeps{
		Members:  memberAuth,
		Products: productAuth,
		Modules:  moduleAuth,
		Builder:  builder,
		Upstream: upstream,
	}, a.Logger)

	handler := web.New(web.Deps{
		Gateway:         gateway,
		Members:         a.Members,
		Modules:         a.Modules,
		Products:        a.Products,
		Metrics:         a.Metrics,
		Clock:           clock.Real{},
		DefaultProvider: a.Config.Gateway.DefaultProvider,
		Logger:          a.Logger,
	})

	router := handler.Router(web.RouterOptions{
		MetricsEnabled: a.Config.Metrics.Enabled,
		MetricsPath:    a.Config.Metrics.Path,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Run starts the watchers and the HTTP server, blocking until shutdown.
func (a *App) Run() error {
	for _, w := range a.watchers {
		if err := w.Start(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
	}
	a.watchSignals()

	a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("digigate listening")
	if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// watchSignals reloads all stores on SIGHUP.
func (a *App) watchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				a.Logger.Info().Msg("received SIGHUP, reloading record stores")
				a.Members.Reload()
				a.Modules.Reload()
				a.Products.Reload()
			case <-a.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Shutdown stops the watchers and gracefully shuts down the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	close(a.stopCh)
	for _, w := range a.watchers {
		w.Stop()
	}
	if a.HTTPServer != nil {
		return a.HTTPServer.Shutdown(ctx)
	}
	return nil
}
