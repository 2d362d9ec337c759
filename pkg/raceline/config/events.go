package config

import (
	"fmt"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
)

type eventsFile struct {
	Events []event.Record `json:"events" yaml:"events"`
}

// LoadEvents reads event records from a YAML or JSON file and decodes
// them. The records may be a top-level list or sit under an "events" key.
func LoadEvents(path string) ([]event.Event, error) {
	data, ext, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var shape any
	if err := decode(data, ext, &shape); err != nil {
		return nil, err
	}

	var recs []event.Record
	if _, isList := shape.([]any); isList {
		if err := decode(data, ext, &recs); err != nil {
			return nil, err
		}
	} else {
		var file eventsFile
		if err := decode(data, ext, &file); err != nil {
			return nil, err
		}
		recs = file.Events
	}

	events, err := event.DecodeAll(recs)
	if err != nil {
		return nil, fmt.Errorf("events %s: %w", path, err)
	}
	return events, nil
}
