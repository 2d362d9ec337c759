/*
Package config loads race setups and event scripts from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return
a default when a key is missing or has the wrong type. Keys may be dotted
paths into nested maps:

	cfg, err := config.FromFile("race.yaml")
	if err != nil {
	    return err
	}

	policy := cfg.String("pipeline.unresolved_driver", "skip_notification")
	queue := cfg.Int("pipeline.highlights.queue_size", 64)

# Race Setup

LoadSetup reads a whole session setup: the race, the roster, the team
styles, and the pipeline options.

	race:
	  id: monaco-2025
	  name: Grand Prix de Monaco 2025
	  circuit: Monaco
	  totalLaps: 5
	drivers:
	  - {id: leclerc, name: Charles Leclerc, team: Ferrari}
	teams:
	  - {name: Ferrari, badge: "🔥", color: "#dc0000"}
	pipeline:
	  unresolved_driver: skip_notification
	  highlights:
	    format: json
	    queue_size: 64
	    rate: 20
	    outbox: highlights.db

Missing teams fall back to notify.DefaultTeams.

# Event Scripts

LoadEvents reads a list of wire records, either at the top level or
under an "events" key, and decodes them with event.DecodeAll.
*/
package config
