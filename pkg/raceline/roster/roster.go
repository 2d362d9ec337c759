// Package roster holds the static reference data of a race session: the
// race itself and the drivers taking part.
//
// A Roster is built once at session start and never mutated afterwards,
// so lookups are safe for concurrent use.
package roster

import (
	"errors"
	"fmt"
)

// Driver is immutable reference data about one driver.
type Driver struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Team string `json:"team" yaml:"team"`
}

// Race is the immutable configuration of one race.
type Race struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Circuit   string `json:"circuit" yaml:"circuit"`
	TotalLaps int    `json:"totalLaps" yaml:"totalLaps"`
}

// Validate checks the race is usable for a session.
func (r Race) Validate() error {
	if r.ID == "" {
		return errors.New("race id is required")
	}
	if r.TotalLaps <= 0 {
		return fmt.Errorf("race %s: total laps must be positive, got %d", r.ID, r.TotalLaps)
	}
	return nil
}

// Sentinel errors for roster construction.
var (
	// ErrDuplicateDriver indicates two drivers share an id.
	ErrDuplicateDriver = errors.New("duplicate driver id")

	// ErrInvalidDriver indicates a driver without an id.
	ErrInvalidDriver = errors.New("driver id is required")
)

// Roster is the ordered set of drivers in a session, indexed by id.
type Roster struct {
	order   []string
	drivers map[string]Driver
}

// New builds a roster from drivers, keeping their order.
// Duplicate or empty ids are rejected.
func New(drivers ...Driver) (*Roster, error) {
	r := &Roster{
		order:   make([]string, 0, len(drivers)),
		drivers: make(map[string]Driver, len(drivers)),
	}
	for _, d := range drivers {
		if d.ID == "" {
			return nil, ErrInvalidDriver
		}
		if _, ok := r.drivers[d.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDriver, d.ID)
		}
		r.drivers[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for static fixtures.
func MustNew(drivers ...Driver) *Roster {
	r, err := New(drivers...)
	if err != nil {
		panic(fmt.Sprintf("roster: %v", err))
	}
	return r
}

// Find returns the driver with the given id.
func (r *Roster) Find(id string) (Driver, bool) {
	if r == nil {
		return Driver{}, false
	}
	d, ok := r.drivers[id]
	return d, ok
}

// Has reports whether id is on the roster.
func (r *Roster) Has(id string) bool {
	_, ok := r.Find(id)
	return ok
}

// Len returns the number of drivers.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Drivers returns a copy of the drivers in roster order.
func (r *Roster) Drivers() []Driver {
	if r == nil {
		return nil
	}

	out := make([]Driver, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.drivers[id])
	}
	return out
}

// Teams returns the distinct team names in order of first appearance.
func (r *Roster) Teams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, d := range r.Drivers() {
		if !seen[d.Team] {
			seen[d.Team] = true
			teams = append(teams, d.Team)
		}
	}
	return teams
}

// Range calls fn for each driver in roster order until fn returns false.
// It iterates over a snapshot, so fn may call other Roster methods.
func (r *Roster) Range(fn func(Driver) bool) {
	for _, d := range r.Drivers() {
		if !fn(d) {
			return
		}
	}
}
