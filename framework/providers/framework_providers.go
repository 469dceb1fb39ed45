package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/inspect"
	"github.com/km-arc/go-inject/framework/metrics"
	"github.com/km-arc/go-inject/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider registers the loaded configuration.
//
// Registered names:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if _, err := app.Constant("config", p.Config); err != nil {
		return err
	}
	return app.Alias("config", "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger as "logger".
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	_, err := app.Constant("logger", p.Logger)
	return err
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider creates a metrics collector, attaches it to the
// container as an observer and registers it. Register it first so that every
// later registration is counted.
//
// Registered names:
//   - "metrics"           → *metrics.Collector
//   - "metrics.registry"  → *prometheus.Registry
type MetricsServiceProvider struct {
	container.BaseProvider
	// Registry defaults to a fresh registry with the Go and process collectors.
	Registry *prometheus.Registry
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	reg := p.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	col, err := metrics.New(reg)
	if err != nil {
		return err
	}
	app.Observe(col)

	if _, err := app.Constant("metrics", col); err != nil {
		return err
	}
	_, err = app.Constant("metrics.registry", reg)
	return err
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers "router", the inspection API for app. It
// is itself a module, built from "logger", "config" and "metrics.registry".
// A missing registry leaves the metrics endpoint unmounted.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	_, err := app.Func("router", func(log *zap.Logger, cfg *config.Config, reg *prometheus.Registry) *routing.Router {
		r := routing.New(log)
		h := inspect.New(app, log)
		if reg != nil {
			h.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		}
		if cfg != nil {
			h.MetricsPath = cfg.HTTP.MetricsPath
		}
		h.Routes(r)
		return r
	}, "logger", "config", "metrics.registry")
	return err
}
