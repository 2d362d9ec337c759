package raceline

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/highlight"
	"github.com/randalmurphal/raceline/pkg/raceline/notify"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
	"github.com/randalmurphal/raceline/pkg/raceline/session"
)

const raceID = "monaco-2025"

// logCapture is a debug-level JSON logger whose records can be inspected.
type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *logCapture) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *logCapture) records() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var records []map[string]any
	for _, line := range bytes.Split(c.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			records = append(records, m)
		}
	}
	return records
}

func (c *logCapture) messages() []string {
	var msgs []string
	for _, r := range c.records() {
		msgs = append(msgs, r["msg"].(string))
	}
	return msgs
}

// harness wires a processor to in-memory sinks.
type harness struct {
	session   *session.Session
	proc      *Processor
	notices   *notify.Recorder
	summaries *highlight.Recorder
	logs      *logCapture
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	sess, err := session.New(roster.Monaco2025, roster.MustNew(roster.MonacoDrivers()...),
		session.WithID("test-session"))
	require.NoError(t, err)

	h := &harness{
		session:   sess,
		notices:   notify.NewRecorder(),
		summaries: highlight.NewRecorder(),
		logs:      &logCapture{},
	}

	base := []Option{
		WithNotifier(h.notices),
		WithPublisher(h.summaries),
		WithLogger(h.logs.logger()),
	}
	h.proc, err = NewProcessor(sess, append(base, opts...)...)
	require.NoError(t, err)
	return h
}

func hdr(id, driver string) event.Header {
	return event.NewHeader(id, raceID, driver)
}

func lap(n int, driver string) event.LapCompleted {
	return event.LapCompleted{Header: hdr("lap-"+driver, driver), LapNumber: n}
}

func overtakeEvt(id, driver, target string, lapNum int) event.Overtake {
	return event.Overtake{Header: hdr(id, driver), TargetDriverID: target, LapNumber: lapNum}
}

func pitStopEvt(id, driver string, lapNum int) event.PitStop {
	return event.PitStop{Header: hdr(id, driver), LapNumber: lapNum}
}

func penaltyEvt(id, driver, reason string) event.Penalty {
	return event.Penalty{Header: hdr(id, driver), Reason: reason}
}

func dnfEvt(id, driver string) event.DNF {
	return event.DNF{Header: hdr(id, driver)}
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// fakeMetrics records every call.
type fakeMetrics struct {
	mu            sync.Mutex
	events        []event.Type
	notifications []string
	highlights    []bool
}

func (m *fakeMetrics) RecordEvent(_ context.Context, typ event.Type, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, typ)
}

func (m *fakeMetrics) RecordNotification(_ context.Context, team string, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fallback {
		team += " (fallback)"
	}
	m.notifications = append(m.notifications, team)
}

func (m *fakeMetrics) RecordHighlight(_ context.Context, _ event.Type, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highlights = append(m.highlights, err == nil)
}

// fakeSpans records span lifecycle calls.
type fakeSpans struct {
	mu     sync.Mutex
	starts []string
	events []string
	errs   []error
}

func (s *fakeSpans) StartEventSpan(ctx context.Context, _ string, evt event.Event) (context.Context, trace.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts = append(s.starts, evt.ID())
	return ctx, noop.Span{}
}

func (s *fakeSpans) EndSpanWithError(_ trace.Span, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *fakeSpans) AddSpanEvent(_ context.Context, name string, _ ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, name)
}
