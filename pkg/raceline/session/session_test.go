package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
	"github.com/randalmurphal/raceline/pkg/raceline/session"
)

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()
	s, err := session.New(roster.Monaco2025, roster.MustNew(roster.MonacoDrivers()...), opts...)
	require.NoError(t, err)
	return s
}

func lap(id, driver string, n int) event.Event {
	return event.LapCompleted{Header: event.NewHeader(id, "monaco-2025", driver), LapNumber: n}
}

func TestNew(t *testing.T) {
	s := newSession(t)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "monaco-2025", s.Race().ID)
	assert.Equal(t, 4, s.Roster().Len())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, session.Counters{}, s.Counters())
	assert.False(t, s.Ended())
}

func TestNewValidates(t *testing.T) {
	_, err := session.New(roster.Race{ID: "r"}, roster.MustNew())
	assert.Error(t, err)

	_, err = session.New(roster.Monaco2025, nil)
	assert.Error(t, err)
}

func TestWithID(t *testing.T) {
	s := newSession(t, session.WithID("race-session-1"))
	assert.Equal(t, "race-session-1", s.ID())
}

func TestRecord(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.Record(lap("lap-1-leclerc", "leclerc", 1), session.CounterNone))
	require.NoError(t, s.Record(event.PitStop{Header: event.NewHeader("pit-1", "monaco-2025", "sainz"), LapNumber: 3}, session.CounterPitStops))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, session.Counters{PitStops: 1}, s.Counters())

	events := s.Events()
	assert.Equal(t, "lap-1-leclerc", events[0].ID())
	assert.Equal(t, "pit-1", events[1].ID())
}

func TestRecordKeepsDuplicates(t *testing.T) {
	s := newSession(t)
	dnf := event.DNF{Header: event.NewHeader("dnf-1", "monaco-2025", "russell")}

	require.NoError(t, s.Record(dnf, session.CounterDNFs))
	require.NoError(t, s.Record(dnf, session.CounterDNFs))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Counters().DNFs)
}

func TestEventsIsCopy(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Record(lap("a", "leclerc", 1), session.CounterNone))

	events := s.Events()
	events[0] = lap("mutated", "sainz", 9)

	assert.Equal(t, "a", s.Events()[0].ID())
}

func TestRange(t *testing.T) {
	s := newSession(t)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Record(lap(id, "leclerc", 1), session.CounterNone))
	}

	var seen []string
	s.Range(func(i int, evt event.Event) bool {
		seen = append(seen, evt.ID())
		return i < 1
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestEnd(t *testing.T) {
	start := time.Date(2025, 5, 25, 15, 0, 0, 0, time.UTC)
	clock := start
	s := newSession(t, session.WithClock(func() time.Time { return clock }))

	require.NoError(t, s.Record(lap("a", "leclerc", 1), session.CounterNone))

	clock = start.Add(90 * time.Minute)
	snap := s.End()
	assert.True(t, s.Ended())
	assert.Len(t, snap.Events, 1)
	assert.Equal(t, 90*time.Minute, snap.Duration())

	clock = start.Add(2 * time.Hour)
	again := s.End()
	assert.Equal(t, snap.EndedAt, again.EndedAt, "End should be idempotent")

	err := s.Record(lap("late", "leclerc", 2), session.CounterNone)
	assert.ErrorIs(t, err, session.ErrEnded)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Record(lap("a", "leclerc", 1), session.CounterNone))

	snap := s.Snapshot()
	require.NoError(t, s.Record(lap("b", "leclerc", 2), session.CounterOvertakes))

	assert.Len(t, snap.Events, 1)
	assert.Equal(t, 0, snap.Counters.Overtakes)
	assert.Zero(t, snap.Duration())
}

func TestRecordConcurrentKeepsLogAndCountersInStep(t *testing.T) {
	s := newSession(t)

	const writers = 8
	const perWriter = 100

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = s.Record(event.DNF{Header: event.NewHeader("x", "r", "d")}, session.CounterDNFs)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, s.Len())
	assert.Equal(t, writers*perWriter, s.Counters().DNFs)
}

func TestCounters(t *testing.T) {
	c := session.Counters{Overtakes: 1, PitStops: 2, Penalties: 3, DNFs: 4}
	assert.Equal(t, 10, c.Total())
	assert.Equal(t, 1, c.Get(session.CounterOvertakes))
	assert.Equal(t, 2, c.Get(session.CounterPitStops))
	assert.Equal(t, 3, c.Get(session.CounterPenalties))
	assert.Equal(t, 4, c.Get(session.CounterDNFs))
	assert.Equal(t, 0, c.Get(session.CounterNone))

	assert.Equal(t, "pit_stops", session.CounterPitStops.String())
	assert.Equal(t, "unknown", session.Counter(42).String())
}
