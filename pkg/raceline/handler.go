package raceline

import (
	"fmt"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/highlight"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
	"github.com/randalmurphal/raceline/pkg/raceline/session"
)

// Notification is a message for one team.
type Notification struct {
	Team    string
	Message string
}

// Effects are the side effects an event asks for beyond logging and
// counting. Nil fields mean "none".
type Effects struct {
	Notification *Notification
	Highlight    *highlight.Summary

	// LogLine is an informational message for the pipeline log.
	LogLine string
}

// Handler computes the effects of one event type.
//
// Counter is a static property of the handler so the counter increment
// can be applied together with the log append, before Effects runs.
// Effects must not perform I/O. driver is nil when the event's driver is
// not on the roster.
type Handler interface {
	Counter() session.Counter
	Effects(evt event.Event, driver *roster.Driver) Effects
}

type handlerFunc struct {
	counter session.Counter
	fn      func(event.Event, *roster.Driver) Effects
}

func (h handlerFunc) Counter() session.Counter { return h.counter }

func (h handlerFunc) Effects(evt event.Event, driver *roster.Driver) Effects {
	return h.fn(evt, driver)
}

// NewHandler builds a Handler from a counter and an effects function.
func NewHandler(counter session.Counter, fn func(evt event.Event, driver *roster.Driver) Effects) Handler {
	return handlerFunc{counter: counter, fn: fn}
}

// DefaultHandlers returns a fresh dispatch table with a handler for every
// known event type.
func DefaultHandlers() map[event.Type]Handler {
	return map[event.Type]Handler{
		event.TypeLapCompleted: NewHandler(session.CounterNone, lapCompletedEffects),
		event.TypePitStop:      NewHandler(session.CounterPitStops, pitStopEffects),
		event.TypeOvertake:     NewHandler(session.CounterOvertakes, overtakeEffects),
		event.TypePenalty:      NewHandler(session.CounterPenalties, penaltyEffects),
		event.TypeDNF:          NewHandler(session.CounterDNFs, dnfEffects),
	}
}

// UnknownReason stands in for a penalty without a reason.
const UnknownReason = "unknown reason"

func notification(driver *roster.Driver, format string, args ...any) *Notification {
	if driver == nil {
		return nil
	}
	return &Notification{
		Team:    driver.Team,
		Message: driver.Name + " " + fmt.Sprintf(format, args...),
	}
}

func lapCompletedEffects(evt event.Event, driver *roster.Driver) Effects {
	e, ok := evt.(event.LapCompleted)
	if !ok || driver == nil {
		return Effects{}
	}
	return Effects{LogLine: fmt.Sprintf("%s completes lap %d", driver.Name, e.LapNumber)}
}

func pitStopEffects(evt event.Event, driver *roster.Driver) Effects {
	e, ok := evt.(event.PitStop)
	if !ok {
		return Effects{}
	}
	return Effects{Notification: notification(driver, "pits on lap %d", e.LapNumber)}
}

func overtakeEffects(evt event.Event, driver *roster.Driver) Effects {
	e, ok := evt.(event.Overtake)
	if !ok {
		return Effects{}
	}
	s := highlight.ForOvertake(e)
	return Effects{
		Notification: notification(driver, "overtakes %s", e.TargetDriverID),
		Highlight:    &s,
	}
}

func penaltyEffects(evt event.Event, driver *roster.Driver) Effects {
	e, ok := evt.(event.Penalty)
	if !ok {
		return Effects{}
	}
	reason := UnknownReason
	if e.HasReason() {
		reason = e.Reason
	}
	s := highlight.ForPenalty(e)
	return Effects{
		Notification: notification(driver, "receives a penalty: %s", reason),
		Highlight:    &s,
	}
}

func dnfEffects(evt event.Event, driver *roster.Driver) Effects {
	e, ok := evt.(event.DNF)
	if !ok {
		return Effects{}
	}
	s := highlight.ForDNF(e)
	return Effects{
		Notification: notification(driver, "retires from the race!"),
		Highlight:    &s,
	}
}
