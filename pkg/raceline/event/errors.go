package event

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in *ValidationError) by Decode.
var (
	// ErrUnknownType indicates a record whose type has no registered schema.
	ErrUnknownType = errors.New("unknown event type")

	// ErrMissingField indicates a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField indicates a field is present but holds an unusable value.
	ErrInvalidField = errors.New("invalid field value")
)

// ValidationError describes why a wire record was rejected.
type ValidationError struct {
	EventID string
	Type    Type
	Field   Field
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("event %q (%s): %s: %v", e.EventID, e.Type, e.Field, e.Err)
	}
	return fmt.Sprintf("event %q (%s): %v", e.EventID, e.Type, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
