package event

import (
	"fmt"
	"slices"
	"sync"
)

// Field names a wire field of a Record.
type Field string

// Wire fields.
const (
	FieldID             Field = "id"
	FieldRaceID         Field = "raceId"
	FieldType           Field = "type"
	FieldDriverID       Field = "driverId"
	FieldLapNumber      Field = "lapNumber"
	FieldTargetDriverID Field = "targetDriverId"
	FieldPenaltyReason  Field = "penaltyReason"
)

// commonFields are required on every record regardless of type.
var commonFields = []Field{FieldID, FieldRaceID, FieldType, FieldDriverID}

// Schema describes the fields an event type carries.
type Schema struct {
	// Type is the event type this schema validates.
	Type Type

	// Description explains the event's purpose.
	Description string

	// Required lists variant-specific fields that must be present.
	// The common fields are always required.
	Required []Field

	// Optional lists variant-specific fields that may be present.
	Optional []Field

	// Validator is an optional extra check run after field presence.
	Validator func(Record) error
}

// Validate checks that rec carries every field the schema requires.
func (s *Schema) Validate(rec Record) error {
	if rec.Type != s.Type {
		return &ValidationError{
			EventID: rec.ID,
			Type:    rec.Type,
			Field:   FieldType,
			Err:     fmt.Errorf("%w: expected %s", ErrInvalidField, s.Type),
		}
	}

	for _, f := range commonFields {
		if !rec.has(f) {
			return &ValidationError{EventID: rec.ID, Type: rec.Type, Field: f, Err: ErrMissingField}
		}
	}
	for _, f := range s.Required {
		if !rec.has(f) {
			return &ValidationError{EventID: rec.ID, Type: rec.Type, Field: f, Err: ErrMissingField}
		}
	}
	if rec.LapNumber < 0 {
		return &ValidationError{
			EventID: rec.ID,
			Type:    rec.Type,
			Field:   FieldLapNumber,
			Err:     fmt.Errorf("%w: lap must be positive, got %d", ErrInvalidField, rec.LapNumber),
		}
	}

	if s.Validator != nil {
		if err := s.Validator(rec); err != nil {
			return &ValidationError{EventID: rec.ID, Type: rec.Type, Err: err}
		}
	}
	return nil
}

// Registry holds one schema per event type.
type Registry struct {
	mu      sync.RWMutex
	schemas map[Type]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[Type]*Schema)}
}

// Register adds or replaces the schema for its type.
func (r *Registry) Register(schema *Schema) error {
	if schema == nil || schema.Type == "" {
		return fmt.Errorf("event type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.Type] = schema
	return nil
}

// Get returns the schema for an event type.
func (r *Registry) Get(t Type) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[t]
	return s, ok
}

// Has reports whether a schema exists for t.
func (r *Registry) Has(t Type) bool {
	_, ok := r.Get(t)
	return ok
}

// Validate checks rec against the schema registered for its type.
func (r *Registry) Validate(rec Record) error {
	schema, ok := r.Get(rec.Type)
	if !ok {
		return &ValidationError{EventID: rec.ID, Type: rec.Type, Field: FieldType, Err: ErrUnknownType}
	}
	return schema.Validate(rec)
}

// Types returns the registered types, sorted.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.schemas))
	for t := range r.schemas {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// DefaultRegistry holds the schemas of the five built-in event types.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []*Schema{
		{
			Type:        TypeLapCompleted,
			Description: "driver finished a lap",
			Required:    []Field{FieldLapNumber},
		},
		{
			Type:        TypePitStop,
			Description: "driver entered the pits",
			Required:    []Field{FieldLapNumber},
		},
		{
			Type:        TypeOvertake,
			Description: "driver passed another car",
			Required:    []Field{FieldTargetDriverID, FieldLapNumber},
		},
		{
			Type:        TypePenalty,
			Description: "driver was penalised",
			Optional:    []Field{FieldPenaltyReason, FieldLapNumber},
		},
		{
			Type:        TypeDNF,
			Description: "driver retired from the race",
			Optional:    []Field{FieldLapNumber},
		},
	} {
		_ = r.Register(s)
	}
	return r
}
