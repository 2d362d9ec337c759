package raceline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/highlight"
	"github.com/randalmurphal/raceline/pkg/raceline/notify"
	"github.com/randalmurphal/raceline/pkg/raceline/observability"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
	"github.com/randalmurphal/raceline/pkg/raceline/session"
)

// Processor applies race events to a session and fans their effects out
// to the notifier and the highlight publisher.
//
// Process is meant to be called by a single writer. The session itself
// keeps the log and counters consistent under concurrent use.
type Processor struct {
	session   *session.Session
	handlers  map[event.Type]Handler
	notifier  notify.Notifier
	publisher highlight.Publisher
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	policy    UnresolvedPolicy

	mu         sync.RWMutex
	middleware []MiddlewareFunc
	effects    EffectsFunc
}

// NewProcessor creates a Processor for sess.
func NewProcessor(sess *session.Session, opts ...Option) (*Processor, error) {
	if sess == nil {
		return nil, ErrNilSession
	}

	p := &Processor{
		session:   sess,
		handlers:  DefaultHandlers(),
		notifier:  notify.Discard,
		publisher: highlight.Discard,
		logger:    slog.Default(),
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
		policy:    PolicySkipNotification,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.rebuild()
	return p, nil
}

// Use adds middleware around effects computation. Middleware added later
// runs inside middleware added earlier.
func (p *Processor) Use(mw MiddlewareFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, mw)
	p.rebuildLocked()
}

func (p *Processor) rebuild() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebuildLocked()
}

func (p *Processor) rebuildLocked() {
	base := func(_ context.Context, evt event.Event, driver *roster.Driver) (Effects, error) {
		return p.handlers[evt.Type()].Effects(evt, driver), nil
	}
	chain := append([]MiddlewareFunc{RecoveryMiddleware()}, p.middleware...)
	p.effects = ChainMiddleware(base, chain...)
}

// Session returns the session the processor writes to.
func (p *Processor) Session() *session.Session {
	return p.session
}

// Start logs the start of the session.
func (p *Processor) Start() {
	race := p.session.Race()
	observability.LogSessionStart(p.logger, p.session.ID(), race.Name, race.TotalLaps)
}

// End closes the session and returns its final snapshot.
func (p *Processor) End() session.Snapshot {
	snap := p.session.End()
	observability.LogSessionEnd(p.logger, snap.SessionID, len(snap.Events), snap.Duration())
	return snap
}

// ProcessAll processes events in order. It stops early and returns the
// context error if ctx is cancelled.
func (p *Processor) ProcessAll(ctx context.Context, events ...event.Event) error {
	for _, evt := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Process(ctx, evt)
	}
	return nil
}

// Process applies one event. It never returns an error: every failure
// after the log append is logged and the remaining steps still run.
func (p *Processor) Process(ctx context.Context, evt event.Event) {
	evt = event.Value(evt)
	if evt == nil {
		p.logger.WarnContext(ctx, "nil event ignored")
		return
	}

	done := observability.TimedOperation()
	log := observability.EventLogger(p.logger, evt)
	ctx, span := p.spans.StartEventSpan(ctx, p.session.ID(), evt)
	var spanErr error
	defer func() { p.spans.EndSpanWithError(span, spanErr) }()

	handler, known := p.handlers[evt.Type()]
	counter := session.CounterNone
	if known {
		counter = handler.Counter()
	}

	if err := p.session.Record(evt, counter); err != nil {
		log.WarnContext(ctx, "event dropped", slog.String("error", err.Error()))
		spanErr = err
		return
	}
	log.InfoContext(ctx, "event registered")
	p.spans.AddSpanEvent(ctx, "recorded", attribute.String("counter", counter.String()))

	defer func() {
		elapsedMs := done()
		p.metrics.RecordEvent(ctx, evt.Type(), time.Duration(elapsedMs*float64(time.Millisecond)))
		observability.LogEventProcessed(p.logger, evt, elapsedMs)
	}()

	if !known {
		log.WarnContext(ctx, "no handler for event type")
		return
	}

	var driver *roster.Driver
	if d, ok := p.session.Roster().Find(evt.DriverID()); ok {
		driver = &d
	} else {
		observability.LogUnknownDriver(p.logger, evt)
	}

	p.mu.RLock()
	compute := p.effects
	p.mu.RUnlock()

	effects, err := compute(ctx, evt, driver)
	if err != nil {
		var pe *PanicError
		if errors.As(err, &pe) {
			observability.LogHandlerPanic(p.logger, evt, pe.Value)
		} else {
			log.ErrorContext(ctx, "effects computation failed", slog.String("error", err.Error()))
		}
		spanErr = err
		return
	}

	if effects.LogLine != "" {
		p.logger.InfoContext(ctx, effects.LogLine, slog.String("event_id", evt.ID()))
	}

	if n := effects.Notification; n != nil && driver != nil {
		if err := p.notify(ctx, evt, *n); err != nil {
			observability.LogNotifyError(p.logger, evt, n.Team, err)
			p.spans.AddSpanEvent(ctx, "notify failed", attribute.String("error", err.Error()))
		} else {
			p.metrics.RecordNotification(ctx, n.Team, p.isFallback(n.Team))
			p.spans.AddSpanEvent(ctx, "notified", attribute.String("team", n.Team))
		}
	}

	if s := effects.Highlight; s != nil {
		if driver == nil && p.policy == PolicySkipAll {
			p.spans.AddSpanEvent(ctx, "highlight skipped")
			return
		}
		err := p.publish(ctx, evt, *s)
		p.metrics.RecordHighlight(ctx, s.Type, err)
		if err != nil {
			observability.LogPublishError(p.logger, evt, err)
			p.spans.AddSpanEvent(ctx, "publish failed", attribute.String("error", err.Error()))
			return
		}
		p.spans.AddSpanEvent(ctx, "published")
	}
}

// notify delivers n, turning a notifier panic into a *PanicError.
func (p *Processor) notify(ctx context.Context, evt event.Event, n Notification) (err error) {
	defer recoverInto(evt, &err)
	p.notifier.Notify(ctx, n.Team, n.Message)
	return nil
}

// publish sends s, turning a publisher panic into a *PanicError.
func (p *Processor) publish(ctx context.Context, evt event.Event, s highlight.Summary) (err error) {
	defer recoverInto(evt, &err)
	return p.publisher.Publish(ctx, s)
}

// isFallback reports whether team lacks a dedicated channel, when the
// notifier can tell.
func (p *Processor) isFallback(team string) bool {
	r, ok := p.notifier.(interface{ Routes(team string) bool })
	return ok && !r.Routes(team)
}
