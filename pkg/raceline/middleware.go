package raceline

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
)

// EffectsFunc computes the effects of an event. It is the unit that
// middleware wraps.
type EffectsFunc func(ctx context.Context, evt event.Event, driver *roster.Driver) (Effects, error)

// MiddlewareFunc wraps effects computation to add cross-cutting concerns.
type MiddlewareFunc func(next EffectsFunc) EffectsFunc

// ChainMiddleware applies middleware in order, with first middleware outermost.
func ChainMiddleware(fn EffectsFunc, middleware ...MiddlewareFunc) EffectsFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		fn = middleware[i](fn)
	}
	return fn
}

// RecoveryMiddleware turns a panic into a *PanicError with no effects.
func RecoveryMiddleware() MiddlewareFunc {
	return func(next EffectsFunc) EffectsFunc {
		return func(ctx context.Context, evt event.Event, driver *roster.Driver) (_ Effects, err error) {
			defer recoverInto(evt, &err)
			return next(ctx, evt, driver)
		}
	}
}

// recoverInto stores a recovered panic in *errp. It must be deferred
// directly.
func recoverInto(evt event.Event, errp *error) {
	if r := recover(); r != nil {
		*errp = &PanicError{
			EventID: evt.ID(),
			Type:    evt.Type(),
			Value:   r,
			Stack:   string(debug.Stack()),
		}
	}
}

// LoggingMiddleware logs each effects computation at debug level.
func LoggingMiddleware(logger *slog.Logger) MiddlewareFunc {
	return func(next EffectsFunc) EffectsFunc {
		return func(ctx context.Context, evt event.Event, driver *roster.Driver) (Effects, error) {
			start := time.Now()
			effects, err := next(ctx, evt, driver)
			if logger != nil {
				logger.DebugContext(ctx, "effects computed",
					slog.String("event_id", evt.ID()),
					slog.String("event_type", string(evt.Type())),
					slog.Bool("driver_resolved", driver != nil),
					slog.Bool("notify", effects.Notification != nil),
					slog.Bool("highlight", effects.Highlight != nil),
					slog.Duration("duration", time.Since(start)),
					slog.Any("error", err),
				)
			}
			return effects, err
		}
	}
}

// MetricsMiddleware reports the duration and outcome of each effects
// computation to onComplete.
func MetricsMiddleware(onComplete func(typ event.Type, duration time.Duration, err error)) MiddlewareFunc {
	return func(next EffectsFunc) EffectsFunc {
		return func(ctx context.Context, evt event.Event, driver *roster.Driver) (Effects, error) {
			start := time.Now()
			effects, err := next(ctx, evt, driver)
			if onComplete != nil {
				onComplete(evt.Type(), time.Since(start), err)
			}
			return effects, err
		}
	}
}
