// Package event defines the race event model.
//
// Every occurrence on track is one of five variants (LapCompleted, PitStop,
// Overtake, Penalty, DNF). All variants implement the sealed Event
// interface, so a type switch over them is exhaustive.
//
// Events arrive on the wire as a flat Record and are turned into variants
// by Decode, which validates per-type required fields against the
// registered Schema.
package event

// Type is the discriminant identifying which kind of race occurrence an
// event represents. The string values are part of the wire format.
type Type string

// Event types.
const (
	TypeLapCompleted Type = "lapCompleted"
	TypePitStop      Type = "pitStop"
	TypeOvertake     Type = "overtake"
	TypePenalty      Type = "penalty"
	TypeDNF          Type = "dnf"
)

// Types returns every known event type in declaration order.
func Types() []Type {
	return []Type{TypeLapCompleted, TypePitStop, TypeOvertake, TypePenalty, TypeDNF}
}

// Valid reports whether t is one of the known event types.
func (t Type) Valid() bool {
	switch t {
	case TypeLapCompleted, TypePitStop, TypeOvertake, TypePenalty, TypeDNF:
		return true
	}
	return false
}

// String returns the wire name of the type.
func (t Type) String() string {
	return string(t)
}

// NoLap is the lap value of events that carry no lap number.
// Laps are 1-based.
const NoLap = 0

// Event is implemented by every race event variant.
// Events are values; processing never mutates them.
type Event interface {
	ID() string       // caller-assigned, unique within a race
	RaceID() string   // race the event belongs to
	DriverID() string // acting driver, expected to be in the roster
	Type() Type
	Lap() int // NoLap when the event has no lap number

	sealed()
}

// Header carries the fields common to every variant.
type Header struct {
	EventID string
	Race    string
	Driver  string
}

// ID returns the event id.
func (h Header) ID() string { return h.EventID }

// RaceID returns the race id.
func (h Header) RaceID() string { return h.Race }

// DriverID returns the acting driver id.
func (h Header) DriverID() string { return h.Driver }

func (Header) sealed() {}

// LapCompleted records a driver crossing the line to finish a lap.
type LapCompleted struct {
	Header
	LapNumber int
}

// Type implements Event.
func (LapCompleted) Type() Type { return TypeLapCompleted }

// Lap implements Event.
func (e LapCompleted) Lap() int { return e.LapNumber }

// PitStop records a driver entering the pits.
type PitStop struct {
	Header
	LapNumber int
}

// Type implements Event.
func (PitStop) Type() Type { return TypePitStop }

// Lap implements Event.
func (e PitStop) Lap() int { return e.LapNumber }

// Overtake records the acting driver passing TargetDriverID.
// The target is kept as a raw id and need not be a roster driver.
type Overtake struct {
	Header
	TargetDriverID string
	LapNumber      int
}

// Type implements Event.
func (Overtake) Type() Type { return TypeOvertake }

// Lap implements Event.
func (e Overtake) Lap() int { return e.LapNumber }

// Penalty records a sanction. Reason and LapNumber are optional; an empty
// Reason means none was given.
type Penalty struct {
	Header
	Reason    string
	LapNumber int
}

// Type implements Event.
func (Penalty) Type() Type { return TypePenalty }

// Lap implements Event.
func (e Penalty) Lap() int { return e.LapNumber }

// HasReason reports whether a penalty reason was supplied.
func (e Penalty) HasReason() bool { return e.Reason != "" }

// DNF records a driver retiring from the race.
type DNF struct {
	Header
	LapNumber int
}

// Type implements Event.
func (DNF) Type() Type { return TypeDNF }

// Lap implements Event.
func (e DNF) Lap() int { return e.LapNumber }

// Compile-time interface checks.
var (
	_ Event = LapCompleted{}
	_ Event = PitStop{}
	_ Event = Overtake{}
	_ Event = Penalty{}
	_ Event = DNF{}
)

// NewHeader builds a Header.
func NewHeader(id, raceID, driverID string) Header {
	return Header{EventID: id, Race: raceID, Driver: driverID}
}

// Value normalises evt to its value form: pointer variants are
// dereferenced so callers can type switch on the value types alone.
// A nil pointer variant yields nil.
func Value(evt Event) Event {
	switch e := evt.(type) {
	case *LapCompleted:
		if e != nil {
			return *e
		}
		return nil
	case *PitStop:
		if e != nil {
			return *e
		}
		return nil
	case *Overtake:
		if e != nil {
			return *e
		}
		return nil
	case *Penalty:
		if e != nil {
			return *e
		}
		return nil
	case *DNF:
		if e != nil {
			return *e
		}
		return nil
	}
	return evt
}
