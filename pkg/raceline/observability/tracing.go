package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// SpanProcess is the name of the per-event span.
const SpanProcess = "raceline.process"

var tracer = otel.Tracer("raceline")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEventSpan starts the span covering one Process call.
	StartEventSpan(ctx context.Context, sessionID string, evt event.Event) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses the global OTel tracer
// provider. Configure it first with otel.SetTracerProvider.
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartEventSpan(ctx context.Context, sessionID string, evt event.Event) (context.Context, trace.Span) {
	return StartEventSpan(ctx, sessionID, evt)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartEventSpan starts a span for processing evt using the global tracer.
func StartEventSpan(ctx context.Context, sessionID string, evt event.Event) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("session.id", sessionID)}
	if evt != nil {
		attrs = append(attrs,
			attribute.String("event.id", evt.ID()),
			attribute.String("event.type", string(evt.Type())),
			attribute.String("race.id", evt.RaceID()),
			attribute.String("driver.id", evt.DriverID()),
		)
		if lap := evt.Lap(); lap != event.NoLap {
			attrs = append(attrs, attribute.Int("event.lap", lap))
		}
	}
	return tracer.Start(ctx, SpanProcess,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
