package benchmarks

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/raceline/pkg/raceline"
	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/highlight"
	"github.com/randalmurphal/raceline/pkg/raceline/notify"
	"github.com/randalmurphal/raceline/pkg/raceline/report"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
	"github.com/randalmurphal/raceline/pkg/raceline/session"
	"github.com/randalmurphal/raceline/pkg/raceline/simulate"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// BenchmarkProcess_Overtake measures one event with every sink wired
// and highlights going through the async queue.
func BenchmarkProcess_Overtake(b *testing.B) {
	proc := newProcessor(b, 4096)
	evt := event.Overtake{
		Header:         event.NewHeader("ov-1", "monaco-2025", "leclerc"),
		TargetDriverID: "hamilton",
		LapNumber:      2,
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Process(ctx, evt)
	}
}

// BenchmarkProcess_LapCompleted measures the cheapest event type.
func BenchmarkProcess_LapCompleted(b *testing.B) {
	proc := newProcessor(b, 0)
	evt := event.LapCompleted{Header: event.NewHeader("lap-1-sainz", "monaco-2025", "sainz"), LapNumber: 1}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Process(ctx, evt)
	}
}

// BenchmarkMonacoRace replays the whole Monaco script per iteration.
func BenchmarkMonacoRace(b *testing.B) {
	r := roster.MustNew(roster.MonacoDrivers()...)
	events := simulate.Script(roster.Monaco2025, r, simulate.MonacoIncidents())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sess, _ := session.New(roster.Monaco2025, r)
		proc, _ := raceline.NewProcessor(sess, raceline.WithLogger(quiet))
		_ = proc.ProcessAll(ctx, events...)
	}
}

// BenchmarkDecode measures wire record validation and decoding.
func BenchmarkDecode(b *testing.B) {
	rec := event.Record{
		ID:            "pen-1",
		RaceID:        "monaco-2025",
		Type:          event.TypePenalty,
		DriverID:      "hamilton",
		LapNumber:     4,
		PenaltyReason: "Track limits",
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = event.Decode(rec)
	}
}

// BenchmarkEncode_JSON measures highlight JSON encoding.
func BenchmarkEncode_JSON(b *testing.B) {
	benchmarkEncode(b, highlight.FormatJSON)
}

// BenchmarkEncode_Msgpack measures highlight msgpack encoding.
func BenchmarkEncode_Msgpack(b *testing.B) {
	benchmarkEncode(b, highlight.FormatMsgpack)
}

// BenchmarkSQLiteOutbox_Publish measures outbox appends on disk.
func BenchmarkSQLiteOutbox_Publish(b *testing.B) {
	outbox, err := highlight.NewSQLiteOutbox(filepath.Join(b.TempDir(), "outbox.db"), highlight.FormatMsgpack)
	if err != nil {
		b.Fatal(err)
	}
	defer outbox.Close()

	s := penaltySummary()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = outbox.Publish(ctx, s)
	}
}

// BenchmarkAsyncPublisher measures enqueueing with a discarding backend.
func BenchmarkAsyncPublisher(b *testing.B) {
	p := highlight.NewAsyncPublisher(highlight.Discard, highlight.AsyncConfig{
		QueueSize: 1024,
		Logger:    quiet,
	})
	s := penaltySummary()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Publish(ctx, s)
	}
	b.StopTimer()
	_ = p.Close()
}

// BenchmarkReport_Render measures rendering a finished Monaco race.
func BenchmarkReport_Render(b *testing.B) {
	r := roster.MustNew(roster.MonacoDrivers()...)
	sess, _ := session.New(roster.Monaco2025, r)
	proc, _ := raceline.NewProcessor(sess, raceline.WithLogger(quiet))
	_ = proc.ProcessAll(context.Background(), simulate.Script(roster.Monaco2025, r, simulate.MonacoIncidents())...)
	snap := proc.End()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = report.Render(snap)
	}
}

// Helper functions

func newProcessor(b *testing.B, queue int) *raceline.Processor {
	b.Helper()
	sess, err := session.New(roster.Monaco2025, roster.MustNew(roster.MonacoDrivers()...))
	if err != nil {
		b.Fatal(err)
	}
	opts := []raceline.Option{
		raceline.WithLogger(quiet),
		raceline.WithNotifier(notify.NewConsoleRouter(io.Discard, notify.DefaultTeams(), quiet)),
		raceline.WithPublisher(highlight.NewLogPublisher(quiet)),
	}
	if queue > 0 {
		async := highlight.NewAsyncPublisher(highlight.Discard, highlight.AsyncConfig{QueueSize: queue, Logger: quiet})
		b.Cleanup(func() { _ = async.Close() })
		opts = append(opts, raceline.WithPublisher(async))
	}
	proc, err := raceline.NewProcessor(sess, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return proc
}

func penaltySummary() highlight.Summary {
	return highlight.ForPenalty(event.Penalty{
		Header: event.NewHeader("pen-1", "monaco-2025", "hamilton"),
		Reason: "Track limits",
	})
}

func benchmarkEncode(b *testing.B, f highlight.Format) {
	s := penaltySummary()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = highlight.Encode(s, f)
	}
}
