package session

// Counter selects one of the aggregate counters.
type Counter int

// Counters an event can increment.
const (
	CounterNone Counter = iota
	CounterOvertakes
	CounterPitStops
	CounterPenalties
	CounterDNFs
)

// String returns the counter name.
func (c Counter) String() string {
	switch c {
	case CounterNone:
		return "none"
	case CounterOvertakes:
		return "overtakes"
	case CounterPitStops:
		return "pit_stops"
	case CounterPenalties:
		return "penalties"
	case CounterDNFs:
		return "dnfs"
	default:
		return "unknown"
	}
}

// Counters are the aggregate totals of a session. They only grow.
type Counters struct {
	Overtakes int
	PitStops  int
	Penalties int
	DNFs      int
}

// Get returns the value of counter c. CounterNone yields 0.
func (c Counters) Get(k Counter) int {
	switch k {
	case CounterOvertakes:
		return c.Overtakes
	case CounterPitStops:
		return c.PitStops
	case CounterPenalties:
		return c.Penalties
	case CounterDNFs:
		return c.DNFs
	}
	return 0
}

// Total returns the sum of all counters.
func (c Counters) Total() int {
	return c.Overtakes + c.PitStops + c.Penalties + c.DNFs
}

func (c *Counters) inc(k Counter) {
	switch k {
	case CounterOvertakes:
		c.Overtakes++
	case CounterPitStops:
		c.PitStops++
	case CounterPenalties:
		c.Penalties++
	case CounterDNFs:
		c.DNFs++
	}
}
