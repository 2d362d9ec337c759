package raceline

import (
	"log/slog"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/highlight"
	"github.com/randalmurphal/raceline/pkg/raceline/notify"
	"github.com/randalmurphal/raceline/pkg/raceline/observability"
)

// Option configures a Processor.
type Option func(*Processor) error

// WithNotifier sets where team notifications go.
// Default: notify.Discard
func WithNotifier(n notify.Notifier) Option {
	return func(p *Processor) error {
		if n != nil {
			p.notifier = n
		}
		return nil
	}
}

// WithPublisher sets where highlight summaries go.
// Default: highlight.Discard
func WithPublisher(pub highlight.Publisher) Option {
	return func(p *Processor) error {
		if pub != nil {
			p.publisher = pub
		}
		return nil
	}
}

// WithLogger sets the pipeline logger.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics() Option {
	return func(p *Processor) error {
		p.metrics = observability.NewMetricsRecorder()
		return nil
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(p *Processor) error {
		if m != nil {
			p.metrics = m
		}
		return nil
	}
}

// WithTracing enables OpenTelemetry tracing using the global tracer
// provider. Each Process call gets a "raceline.process" span.
func WithTracing() Option {
	return func(p *Processor) error {
		p.spans = observability.NewSpanManager()
		return nil
	}
}

// WithSpanManager sets a custom span manager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(p *Processor) error {
		if s != nil {
			p.spans = s
		}
		return nil
	}
}

// WithHandler registers h for typ, replacing any existing handler.
func WithHandler(typ event.Type, h Handler) Option {
	return func(p *Processor) error {
		if h == nil {
			return ErrNilHandler
		}
		p.handlers[typ] = h
		return nil
	}
}

// WithUnresolvedPolicy sets how events with an unknown driver are handled.
// Default: PolicySkipNotification
func WithUnresolvedPolicy(policy UnresolvedPolicy) Option {
	return func(p *Processor) error {
		p.policy = policy
		return nil
	}
}

// WithMiddleware adds middleware around effects computation.
func WithMiddleware(mw ...MiddlewareFunc) Option {
	return func(p *Processor) error {
		p.middleware = append(p.middleware, mw...)
		return nil
	}
}
