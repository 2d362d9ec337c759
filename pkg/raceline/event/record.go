package event

// Record is the flat wire form of an event. Variant-specific fields are
// left at their zero value when a type does not carry them.
type Record struct {
	ID             string `json:"id" yaml:"id"`
	RaceID         string `json:"raceId" yaml:"raceId"`
	Type           Type   `json:"type" yaml:"type"`
	DriverID       string `json:"driverId" yaml:"driverId"`
	LapNumber      int    `json:"lapNumber,omitempty" yaml:"lapNumber,omitempty"`
	TargetDriverID string `json:"targetDriverId,omitempty" yaml:"targetDriverId,omitempty"`
	PenaltyReason  string `json:"penaltyReason,omitempty" yaml:"penaltyReason,omitempty"`
}

func (r Record) has(f Field) bool {
	switch f {
	case FieldID:
		return r.ID != ""
	case FieldRaceID:
		return r.RaceID != ""
	case FieldType:
		return r.Type != ""
	case FieldDriverID:
		return r.DriverID != ""
	case FieldLapNumber:
		return r.LapNumber != NoLap
	case FieldTargetDriverID:
		return r.TargetDriverID != ""
	case FieldPenaltyReason:
		return r.PenaltyReason != ""
	}
	return false
}

// Decode validates rec against DefaultRegistry and returns its variant.
func Decode(rec Record) (Event, error) {
	return DefaultRegistry.Decode(rec)
}

// Decode validates rec and returns its variant.
func (r *Registry) Decode(rec Record) (Event, error) {
	if err := r.Validate(rec); err != nil {
		return nil, err
	}

	h := NewHeader(rec.ID, rec.RaceID, rec.DriverID)
	switch rec.Type {
	case TypeLapCompleted:
		return LapCompleted{Header: h, LapNumber: rec.LapNumber}, nil
	case TypePitStop:
		return PitStop{Header: h, LapNumber: rec.LapNumber}, nil
	case TypeOvertake:
		return Overtake{Header: h, TargetDriverID: rec.TargetDriverID, LapNumber: rec.LapNumber}, nil
	case TypePenalty:
		return Penalty{Header: h, Reason: rec.PenaltyReason, LapNumber: rec.LapNumber}, nil
	case TypeDNF:
		return DNF{Header: h, LapNumber: rec.LapNumber}, nil
	}
	// A schema registered for a type this package cannot build.
	return nil, &ValidationError{EventID: rec.ID, Type: rec.Type, Field: FieldType, Err: ErrUnknownType}
}

// DecodeAll decodes records in order, stopping at the first invalid one.
func DecodeAll(recs []Record) ([]Event, error) {
	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		evt, err := Decode(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

// ToRecord returns the wire form of evt.
func ToRecord(evt Event) Record {
	evt = Value(evt)
	rec := Record{
		ID:        evt.ID(),
		RaceID:    evt.RaceID(),
		Type:      evt.Type(),
		DriverID:  evt.DriverID(),
		LapNumber: evt.Lap(),
	}
	switch e := evt.(type) {
	case Overtake:
		rec.TargetDriverID = e.TargetDriverID
	case Penalty:
		rec.PenaltyReason = e.Reason
	}
	return rec
}
