package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/discovery"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/framework/routing"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Application is the top-level container. It embeds the Container and the
// ProviderRegistry so callers can register entities and providers directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Config    *config.Config
	Log       *zap.Logger
	Discovery *discovery.Provider
}

// New builds an application for cfg and registers the framework providers
// followed by discovery of cfg.Discovery.Dir. Nothing is resolved until Boot.
// A nil logger discards output.
func New(cfg *config.Config, log *zap.Logger) (*Application, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := container.New(
		container.WithLogger(log),
		container.WithStrictDependencies(cfg.Resolution.Strict),
	)
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		Config:    cfg,
		Log:       log,
		Discovery: discovery.NewProvider(discovery.NewLoader(cfg.Discovery, log)),
	}

	// metrics first, so every later registration is observed
	for _, p := range []container.ServiceProvider{
		&providers.MetricsServiceProvider{},
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{},
		app.Discovery,
	} {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs every provider's Boot hook, then resolves the whole container.
// Later calls return the first result.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Router resolves the inspection router.
func (a *Application) Router() (*routing.Router, error) {
	return container.Get[*routing.Router](a.Container, "router")
}

// Serve boots the application (if needed) and serves the inspection API on
// cfg.HTTP.Port until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.Config.HTTP.Port)
	if err != nil {
		return fmt.Errorf("app: listen: %w", err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener, which it closes.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	if err := a.Boot(); err != nil {
		_ = ln.Close()
		return err
	}
	router, err := a.Router()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	a.Log.Info("serving",
		zap.String("app", a.Config.App.Name),
		zap.String("env", a.Config.App.Env),
		zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("app: serve: %w", err)
	}
	a.Log.Info("server stopped")
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
