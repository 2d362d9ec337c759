// Package observability provides structured logging, metrics, and
// tracing for the event pipeline.
//
// Metrics and tracing use OpenTelemetry's global providers. Both have
// no-op implementations for when they are disabled.
package observability

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// EventLogger adds event context to a logger.
// Returns nil for a nil logger.
func EventLogger(logger *slog.Logger, evt event.Event) *slog.Logger {
	if logger == nil || evt == nil {
		return logger
	}
	return logger.With(
		slog.String("event_id", evt.ID()),
		slog.String("event_type", string(evt.Type())),
		slog.String("driver_id", evt.DriverID()),
	)
}

// LogSessionStart logs the start of a race session.
func LogSessionStart(logger *slog.Logger, sessionID, raceName string, laps int) {
	if logger == nil {
		return
	}
	logger.Info("race session starting",
		slog.String("session_id", sessionID),
		slog.String("race", raceName),
		slog.Int("total_laps", laps),
	)
}

// LogSessionEnd logs the end of a race session.
func LogSessionEnd(logger *slog.Logger, sessionID string, events int, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("race session finished",
		slog.String("session_id", sessionID),
		slog.Int("events", events),
		slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
	)
}

// LogEventProcessed logs a processed event.
func LogEventProcessed(logger *slog.Logger, evt event.Event, durationMs float64) {
	if logger == nil || evt == nil {
		return
	}
	logger.Debug("event processed",
		slog.String("event_id", evt.ID()),
		slog.String("event_type", string(evt.Type())),
		slog.String("driver_id", evt.DriverID()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogUnknownDriver logs an event whose driver is not on the roster.
func LogUnknownDriver(logger *slog.Logger, evt event.Event) {
	if logger == nil || evt == nil {
		return
	}
	logger.Warn("driver not found",
		slog.String("event_id", evt.ID()),
		slog.String("event_type", string(evt.Type())),
		slog.String("driver_id", evt.DriverID()),
	)
}

// LogPublishError logs a failed highlight publish (non-fatal).
func LogPublishError(logger *slog.Logger, evt event.Event, err error) {
	if logger == nil || evt == nil || err == nil {
		return
	}
	logger.Warn("highlight publish failed",
		slog.String("event_id", evt.ID()),
		slog.String("event_type", string(evt.Type())),
		slog.String("driver_id", evt.DriverID()),
		slog.String("error", err.Error()),
	)
}

// LogNotifyError logs a failed team notification (non-fatal).
func LogNotifyError(logger *slog.Logger, evt event.Event, team string, err error) {
	if logger == nil || evt == nil || err == nil {
		return
	}
	logger.Warn("team notification failed",
		slog.String("event_id", evt.ID()),
		slog.String("event_type", string(evt.Type())),
		slog.String("team", team),
		slog.String("error", err.Error()),
	)
}

// LogHandlerPanic logs a recovered handler panic.
func LogHandlerPanic(logger *slog.Logger, evt event.Event, recovered any) {
	if logger == nil || evt == nil {
		return
	}
	logger.Error("event handler panicked",
		slog.String("event_id", evt.ID()),
		slog.String("event_type", string(evt.Type())),
		slog.Any("panic", recovered),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
