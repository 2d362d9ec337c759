package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// setupMetricsTest installs a meter provider backed by a manual reader.
func setupMetricsTest(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})
	return reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value of the data point carrying all attrs.
func sumFor(t *testing.T, m *metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")

	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMetricsRecorder(t *testing.T) {
	setupMetricsTest(t)

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordEvent(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEvent(ctx, event.TypeOvertake, time.Millisecond)
	m.RecordEvent(ctx, event.TypeOvertake, time.Millisecond)
	m.RecordEvent(ctx, event.TypeLapCompleted, time.Millisecond)

	rm := collectMetrics(t, reader)
	processed := findMetric(rm, MetricEventsProcessed)
	assert.Equal(t, int64(2), sumFor(t, processed, attribute.String("type", "overtake")))
	assert.Equal(t, int64(1), sumFor(t, processed, attribute.String("type", "lapCompleted")))

	latency := findMetric(rm, MetricProcessLatency)
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	assert.Len(t, hist.DataPoints, 2)
}

func TestRecordNotification(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordNotification(ctx, "Ferrari", false)
	m.RecordNotification(ctx, "Haas", true)

	metric := findMetric(collectMetrics(t, reader), MetricNotificationsSent)
	assert.Equal(t, int64(1), sumFor(t, metric,
		attribute.String("team", "Ferrari"), attribute.Bool("fallback", false)))
	assert.Equal(t, int64(1), sumFor(t, metric,
		attribute.String("team", "Haas"), attribute.Bool("fallback", true)))
}

func TestRecordHighlight(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordHighlight(ctx, event.TypeDNF, nil)
	m.RecordHighlight(ctx, event.TypeDNF, errors.New("down"))

	metric := findMetric(collectMetrics(t, reader), MetricHighlightsPublished)
	assert.Equal(t, int64(1), sumFor(t, metric,
		attribute.String("type", "dnf"), attribute.Bool("success", true)))
	assert.Equal(t, int64(1), sumFor(t, metric,
		attribute.String("type", "dnf"), attribute.Bool("success", false)))
}

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordEvent(ctx, event.TypePitStop, time.Second)
		m.RecordNotification(ctx, "Ferrari", false)
		m.RecordHighlight(ctx, event.TypePenalty, errors.New("x"))
	})
}
