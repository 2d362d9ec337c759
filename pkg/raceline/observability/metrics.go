package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// Metric names.
const (
	MetricEventsProcessed     = "raceline.events.processed"
	MetricNotificationsSent   = "raceline.notifications.sent"
	MetricHighlightsPublished = "raceline.highlights.published"
	MetricProcessLatency      = "raceline.process.latency_ms"
)

// MetricsRecorder records pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvent records one processed event and how long it took.
	RecordEvent(ctx context.Context, typ event.Type, duration time.Duration)

	// RecordNotification records a notification handed to the notifier.
	RecordNotification(ctx context.Context, team string, fallback bool)

	// RecordHighlight records a publish attempt and whether it succeeded.
	RecordHighlight(ctx context.Context, typ event.Type, err error)
}

type otelMetrics struct {
	events        metric.Int64Counter
	latency       metric.Float64Histogram
	notifications metric.Int64Counter
	highlights    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("raceline")

	events, err := meter.Int64Counter(MetricEventsProcessed,
		metric.WithDescription("Number of race events processed"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(MetricProcessLatency,
		metric.WithDescription("Event processing latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter(MetricNotificationsSent,
		metric.WithDescription("Number of team notifications sent"),
	)
	if err != nil {
		return nil, err
	}

	highlights, err := meter.Int64Counter(MetricHighlightsPublished,
		metric.WithDescription("Number of highlight publish attempts"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		events:        events,
		latency:       latency,
		notifications: notifications,
		highlights:    highlights,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordEvent(ctx context.Context, typ event.Type, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("type", string(typ)))
	m.events.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

func (m *otelMetrics) RecordNotification(ctx context.Context, team string, fallback bool) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("team", team),
		attribute.Bool("fallback", fallback),
	))
}

func (m *otelMetrics) RecordHighlight(ctx context.Context, typ event.Type, err error) {
	m.highlights.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(typ)),
		attribute.Bool("success", err == nil),
	))
}
