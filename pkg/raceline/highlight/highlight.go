// Package highlight builds the summaries of notable race events and
// delivers them to external consumers.
//
// The Summary shape is a stable contract:
//
//	overtake: {"type","raceId","driverId","lap"}
//	penalty:  {"type","raceId","driverId","reason"}
//	dnf:      {"type","raceId","driverId"}
//
// Absent optional values are omitted from the encoded form.
//
// The event pipeline treats Publish as fire-and-forget. Delivery
// concerns (queueing, rate limiting, retries, storage) belong to the
// Publisher implementations in this package.
package highlight

import (
	"context"
	"errors"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// Summary is the structured description of a highlight.
type Summary struct {
	Type     event.Type `json:"type" msgpack:"type"`
	RaceID   string     `json:"raceId" msgpack:"raceId"`
	DriverID string     `json:"driverId" msgpack:"driverId"`
	Lap      *int       `json:"lap,omitempty" msgpack:"lap,omitempty"`
	Reason   *string    `json:"reason,omitempty" msgpack:"reason,omitempty"`
}

// ForOvertake summarises an overtake. The lap is omitted when unknown.
func ForOvertake(e event.Overtake) Summary {
	s := base(e)
	if e.LapNumber != event.NoLap {
		lap := e.LapNumber
		s.Lap = &lap
	}
	return s
}

// ForPenalty summarises a penalty. The reason is omitted when absent.
func ForPenalty(e event.Penalty) Summary {
	s := base(e)
	if e.HasReason() {
		reason := e.Reason
		s.Reason = &reason
	}
	return s
}

// ForDNF summarises a retirement.
func ForDNF(e event.DNF) Summary {
	return base(e)
}

func base(e event.Event) Summary {
	return Summary{Type: e.Type(), RaceID: e.RaceID(), DriverID: e.DriverID()}
}

// Publisher delivers highlight summaries.
type Publisher interface {
	Publish(ctx context.Context, s Summary) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, s Summary) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, s Summary) error {
	return f(ctx, s)
}

// Discard is a Publisher that drops every summary.
var Discard Publisher = PublisherFunc(func(context.Context, Summary) error { return nil })

// Sentinel errors for publishers.
var (
	// ErrClosed indicates Publish was called after Close.
	ErrClosed = errors.New("highlight publisher closed")

	// ErrQueueFull indicates an async publisher dropped a summary.
	ErrQueueFull = errors.New("highlight queue full")
)

// Multi returns a Publisher that delivers to every publisher in order.
// All publishers are attempted; their errors are joined.
func Multi(publishers ...Publisher) Publisher {
	return PublisherFunc(func(ctx context.Context, s Summary) error {
		var errs []error
		for _, p := range publishers {
			if err := p.Publish(ctx, s); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
