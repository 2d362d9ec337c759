package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// capture returns a debug-level JSON logger and a function that decodes
// its most recent record.
func capture() (*slog.Logger, func() map[string]any) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	last := func() map[string]any {
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
			return nil
		}
		var m map[string]any
		if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
			return nil
		}
		return m
	}
	return logger, last
}

var overtake = event.Overtake{
	Header:         event.NewHeader("ov-1", "monaco-2025", "leclerc"),
	TargetDriverID: "hamilton",
	LapNumber:      2,
}

func TestEventLogger(t *testing.T) {
	logger, last := capture()

	EventLogger(logger, overtake).Info("hello")

	record := last()
	require.NotNil(t, record)
	assert.Equal(t, "ov-1", record["event_id"])
	assert.Equal(t, "overtake", record["event_type"])
	assert.Equal(t, "leclerc", record["driver_id"])

	assert.Nil(t, EventLogger(nil, overtake))
	assert.Same(t, logger, EventLogger(logger, nil))
}

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
		msg   string
		attrs map[string]any
	}{
		{
			name:  "session start",
			log:   func(l *slog.Logger) { LogSessionStart(l, "s-1", "Grand Prix de Monaco 2025", 5) },
			level: "INFO",
			msg:   "race session starting",
			attrs: map[string]any{"session_id": "s-1", "race": "Grand Prix de Monaco 2025", "total_laps": float64(5)},
		},
		{
			name:  "session end",
			log:   func(l *slog.Logger) { LogSessionEnd(l, "s-1", 24, 1500*time.Microsecond) },
			level: "INFO",
			msg:   "race session finished",
			attrs: map[string]any{"session_id": "s-1", "events": float64(24), "duration_ms": 1.5},
		},
		{
			name:  "event processed",
			log:   func(l *slog.Logger) { LogEventProcessed(l, overtake, 0.25) },
			level: "DEBUG",
			msg:   "event processed",
			attrs: map[string]any{"event_id": "ov-1", "event_type": "overtake", "duration_ms": 0.25},
		},
		{
			name:  "unknown driver",
			log:   func(l *slog.Logger) { LogUnknownDriver(l, overtake) },
			level: "WARN",
			msg:   "driver not found",
			attrs: map[string]any{"driver_id": "leclerc"},
		},
		{
			name:  "publish error",
			log:   func(l *slog.Logger) { LogPublishError(l, overtake, errors.New("timeout")) },
			level: "WARN",
			msg:   "highlight publish failed",
			attrs: map[string]any{"event_id": "ov-1", "error": "timeout"},
		},
		{
			name:  "notify error",
			log:   func(l *slog.Logger) { LogNotifyError(l, overtake, "Ferrari", errors.New("pager offline")) },
			level: "WARN",
			msg:   "team notification failed",
			attrs: map[string]any{"event_id": "ov-1", "team": "Ferrari", "error": "pager offline"},
		},
		{
			name:  "handler panic",
			log:   func(l *slog.Logger) { LogHandlerPanic(l, overtake, "boom") },
			level: "ERROR",
			msg:   "event handler panicked",
			attrs: map[string]any{"event_id": "ov-1", "panic": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, last := capture()
			tt.log(logger)

			record := last()
			require.NotNil(t, record)
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.msg, record["msg"])
			for k, v := range tt.attrs {
				assert.Equal(t, v, record[k], k)
			}
		})
	}
}

func TestLogHelpers_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogSessionStart(nil, "s", "r", 1)
		LogSessionEnd(nil, "s", 0, 0)
		LogEventProcessed(nil, overtake, 0)
		LogUnknownDriver(nil, overtake)
		LogPublishError(nil, overtake, errors.New("x"))
		LogNotifyError(nil, overtake, "Ferrari", errors.New("x"))
		LogHandlerPanic(nil, overtake, "x")
	})

	logger, last := capture()
	LogPublishError(logger, overtake, nil)
	LogNotifyError(logger, overtake, "Ferrari", nil)
	LogEventProcessed(logger, nil, 0)
	assert.Nil(t, last(), "nothing logged without an error or event")
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 2.0)
}
