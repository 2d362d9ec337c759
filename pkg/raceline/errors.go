package raceline

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

// Sentinel errors for processor construction.
var (
	// ErrNilSession indicates NewProcessor was called without a session.
	ErrNilSession = errors.New("session cannot be nil")

	// ErrNilHandler indicates WithHandler was given a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrUnknownPolicy indicates an unrecognised unresolved-driver policy name.
	ErrUnknownPolicy = errors.New("unknown unresolved driver policy")
)

// PanicError captures a panic raised by a handler or an effect sink while
// handling an event.
type PanicError struct {
	// EventID is the id of the event being handled.
	EventID string
	// Type is the event type being handled.
	Type event.Type
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while handling %s event %s: %v", e.Type, e.EventID, e.Value)
}
