// Package simulate builds and replays scripted races.
package simulate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/raceline/pkg/raceline"
	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
)

// Incident is a scripted event that happens after every driver has
// completed the given lap.
type Incident struct {
	Lap   int
	Event event.Event
}

// MonacoIncidents returns the incidents of the Monaco 2025 scenario.
func MonacoIncidents() []Incident {
	race := roster.Monaco2025.ID
	return []Incident{
		{Lap: 2, Event: event.Overtake{
			Header:         event.NewHeader("ov-1", race, "leclerc"),
			TargetDriverID: "hamilton",
			LapNumber:      2,
		}},
		{Lap: 3, Event: event.PitStop{
			Header:    event.NewHeader("pit-1", race, "sainz"),
			LapNumber: 3,
		}},
		{Lap: 4, Event: event.Penalty{
			Header:    event.NewHeader("pen-1", race, "hamilton"),
			Reason:    "Track limits",
			LapNumber: 4,
		}},
		{Lap: 5, Event: event.DNF{
			Header:    event.NewHeader("dnf-1", race, "russell"),
			LapNumber: 5,
		}},
	}
}

// IncidentsFrom places each event after the lap it carries. Events
// without a lap are placed after the final lap.
func IncidentsFrom(events []event.Event) []Incident {
	incidents := make([]Incident, 0, len(events))
	for _, evt := range events {
		incidents = append(incidents, Incident{Lap: evt.Lap(), Event: evt})
	}
	return incidents
}

// LapEventID returns the id of a generated lap completion.
func LapEventID(lap int, driverID string) string {
	return fmt.Sprintf("lap-%d-%s", lap, driverID)
}

// Script builds the event sequence of a race: for each lap every roster
// driver completes the lap in roster order, followed by that lap's
// incidents in the order given. Incidents outside 1..TotalLaps run after
// the final lap. Incidents without an id get a generated one.
func Script(race roster.Race, r *roster.Roster, incidents []Incident) []event.Event {
	byLap := make(map[int][]event.Event)
	var trailing []event.Event
	for _, inc := range incidents {
		evt := withID(event.Value(inc.Event))
		if evt == nil {
			continue
		}
		if inc.Lap < 1 || inc.Lap > race.TotalLaps {
			trailing = append(trailing, evt)
			continue
		}
		byLap[inc.Lap] = append(byLap[inc.Lap], evt)
	}

	events := make([]event.Event, 0, race.TotalLaps*r.Len()+len(incidents))
	for lap := 1; lap <= race.TotalLaps; lap++ {
		r.Range(func(d roster.Driver) bool {
			events = append(events, event.LapCompleted{
				Header:    event.NewHeader(LapEventID(lap, d.ID), race.ID, d.ID),
				LapNumber: lap,
			})
			return true
		})
		events = append(events, byLap[lap]...)
	}
	return append(events, trailing...)
}

func withID(evt event.Event) event.Event {
	if evt == nil || evt.ID() != "" {
		return evt
	}
	rec := event.ToRecord(evt)
	rec.ID = uuid.NewString()
	if decoded, err := event.Decode(rec); err == nil {
		return decoded
	}
	return evt
}

// Run replays events through proc, logging the race start, a banner at
// the start of each lap, and the finish. It stops early if ctx is
// cancelled.
func Run(ctx context.Context, proc *raceline.Processor, logger *slog.Logger, events []event.Event) error {
	if logger == nil {
		logger = slog.Default()
	}
	race := proc.Session().Race()

	logger.InfoContext(ctx, "race starting", slog.String("race", race.Name))
	proc.Start()

	banner := 0
	for _, evt := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lc, ok := event.Value(evt).(event.LapCompleted); ok && lc.LapNumber > banner {
			banner = lc.LapNumber
			logger.InfoContext(ctx, fmt.Sprintf("=== Lap %d ===", banner))
		}
		proc.Process(ctx, evt)
	}

	logger.InfoContext(ctx, "race finished", slog.String("race", race.Name))
	return nil
}
