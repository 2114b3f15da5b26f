// Package observability builds the logger, metrics registry and tracer every
// module receives.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config configures observability.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	Output      io.Writer
}

// Observability bundles the shared telemetry components.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.PrometheusMetrics
	Tracer   trace.Tracer
}

// Init creates the logger (text in development, JSON elsewhere), a Prometheus registry with the process and Go
// collectors, the domain metrics and a tracer from the global provider.
func Init(cfg Config) (Observability, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.NewPrometheusMetrics(reg, metricsNamespace(cfg.ServiceName))
	if err != nil {
		return Observability{}, fmt.Errorf("failed to register metrics: %w", err)
	}

	return Observability{
		Logger:   logger,
		Registry: reg,
		Metrics:  m,
		Tracer:   otel.Tracer(cfg.ServiceName),
	}, nil
}

// ParseLevel maps a config string to a slog level; unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func metricsNamespace(service string) string {
	if service == "" {
		return "frolf_fantasy"
	}
	return strings.ReplaceAll(service, "-", "_")
}
