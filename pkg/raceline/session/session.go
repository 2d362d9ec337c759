// Package session holds the mutable state of one race: the append-only
// event log and the aggregate counters.
//
// A Session is created when a race starts and ended when it finishes.
// Appending an event and incrementing its counter happen under one lock,
// so the log and the counters never diverge.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
)

// ErrEnded indicates an event was recorded after End.
var ErrEnded = errors.New("session ended")

// Session is the state of one race from start to end.
type Session struct {
	id     string
	race   roster.Race
	roster *roster.Roster
	now    func() time.Time

	mu        sync.RWMutex
	events    []event.Event
	counters  Counters
	startedAt time.Time
	endedAt   time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id (default: a random UUID).
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithClock overrides time.Now for start and end timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New starts a session for race with the given roster.
// Counters start at zero and the log starts empty.
func New(race roster.Race, r *roster.Roster, opts ...Option) (*Session, error) {
	if err := race.Validate(); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	if r == nil {
		return nil, errors.New("start session: roster is required")
	}

	s := &Session{
		id:     uuid.New().String(),
		race:   race,
		roster: r,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Race returns the race configuration.
func (s *Session) Race() roster.Race { return s.race }

// Roster returns the session's drivers.
func (s *Session) Roster() *roster.Roster { return s.roster }

// StartedAt returns when the session started.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Record appends evt to the log and increments counter c as one unit.
// CounterNone leaves every counter unchanged. Duplicate ids are recorded
// as given.
func (s *Session) Record(evt event.Event, c Counter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.endedAt.IsZero() {
		return ErrEnded
	}
	s.events = append(s.events, evt)
	s.counters.inc(c)
	return nil
}

// Len returns the number of logged events.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Events returns a copy of the log in insertion order.
func (s *Session) Events() []event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Counters returns the current counter values.
func (s *Session) Counters() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

// Range calls fn with each logged event and its position until fn
// returns false. It iterates over a snapshot of the log.
func (s *Session) Range(fn func(i int, evt event.Event) bool) {
	for i, evt := range s.Events() {
		if !fn(i, evt) {
			return
		}
	}
}

// Ended reports whether End has been called.
func (s *Session) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.endedAt.IsZero()
}

// End closes the session and returns its final snapshot.
// Calling End again returns the same snapshot.
func (s *Session) End() Snapshot {
	s.mu.Lock()
	if s.endedAt.IsZero() {
		s.endedAt = s.now()
	}
	s.mu.Unlock()
	return s.Snapshot()
}

// Snapshot returns a read-only copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]event.Event, len(s.events))
	copy(events, s.events)
	return Snapshot{
		SessionID: s.id,
		Race:      s.race,
		Events:    events,
		Counters:  s.counters,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
	}
}

// Snapshot is the state of a session at one instant.
type Snapshot struct {
	SessionID string
	Race      roster.Race
	Events    []event.Event
	Counters  Counters
	StartedAt time.Time
	EndedAt   time.Time // zero while the session is running
}

// Duration returns how long the session ran, or zero if it has not ended.
func (s Snapshot) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
