package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/randalmurphal/raceline/pkg/raceline"
	rlerrors "github.com/randalmurphal/raceline/pkg/raceline/errors"
	"github.com/randalmurphal/raceline/pkg/raceline/highlight"
	"github.com/randalmurphal/raceline/pkg/raceline/notify"
	"github.com/randalmurphal/raceline/pkg/raceline/roster"
)

// ErrNoRace indicates a setup file without a race section.
var ErrNoRace = errors.New("race section is required")

// Setup is everything needed to start a race session.
type Setup struct {
	Race     roster.Race
	Roster   *roster.Roster
	Teams    []notify.TeamStyle
	LogLevel slog.Level
	Pipeline Pipeline
}

// Pipeline holds processor and delivery settings.
type Pipeline struct {
	UnresolvedDriver raceline.UnresolvedPolicy
	Highlights       HighlightOptions
}

// HighlightOptions configures highlight delivery.
type HighlightOptions struct {
	Format    highlight.Format
	QueueSize int

	// Rate is deliveries per second. Zero means unlimited.
	Rate  float64
	Burst int

	RetryAttempts int
	RetryBackoff  time.Duration

	// Outbox is the SQLite outbox path. Empty disables the outbox.
	Outbox string
}

// AsyncConfig converts the options to an AsyncPublisher configuration.
func (h HighlightOptions) AsyncConfig(logger *slog.Logger) highlight.AsyncConfig {
	cfg := highlight.DefaultAsyncConfig
	cfg.QueueSize = h.QueueSize
	cfg.Burst = h.Burst
	if h.Rate > 0 {
		cfg.Rate = rate.Limit(h.Rate)
	}
	cfg.Retry = rlerrors.DefaultRetry
	cfg.Retry.MaxAttempts = h.RetryAttempts
	cfg.Retry.InitialBackoff = h.RetryBackoff
	cfg.Logger = logger
	return cfg
}

// Options returns the processor options implied by the setup.
func (s Setup) Options() []raceline.Option {
	return []raceline.Option{
		raceline.WithUnresolvedPolicy(s.Pipeline.UnresolvedDriver),
	}
}

type setupFile struct {
	Race    *roster.Race       `json:"race" yaml:"race"`
	Drivers []roster.Driver    `json:"drivers" yaml:"drivers"`
	Teams   []notify.TeamStyle `json:"teams" yaml:"teams"`
}

// LoadSetup reads a race setup from a YAML or JSON file.
func LoadSetup(path string) (Setup, error) {
	data, ext, err := readFile(path)
	if err != nil {
		return Setup{}, err
	}

	var file setupFile
	if err := decode(data, ext, &file); err != nil {
		return Setup{}, err
	}
	var raw map[string]any
	if err := decode(data, ext, &raw); err != nil {
		return Setup{}, err
	}

	setup, err := buildSetup(file, New(raw))
	if err != nil {
		return Setup{}, fmt.Errorf("setup %s: %w", path, err)
	}
	return setup, nil
}

func buildSetup(file setupFile, cfg Config) (Setup, error) {
	if file.Race == nil {
		return Setup{}, ErrNoRace
	}
	if err := file.Race.Validate(); err != nil {
		return Setup{}, err
	}

	r, err := roster.New(file.Drivers...)
	if err != nil {
		return Setup{}, err
	}

	teams := file.Teams
	if len(teams) == 0 {
		teams = notify.DefaultTeams()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.String("log.level", "info"))); err != nil {
		return Setup{}, fmt.Errorf("log.level: %w", err)
	}

	pipeline, err := parsePipeline(cfg.Section("pipeline"))
	if err != nil {
		return Setup{}, err
	}

	return Setup{
		Race:     *file.Race,
		Roster:   r,
		Teams:    teams,
		LogLevel: level,
		Pipeline: pipeline,
	}, nil
}

func parsePipeline(cfg Config) (Pipeline, error) {
	policy, err := raceline.ParseUnresolvedPolicy(cfg.String("unresolved_driver", ""))
	if err != nil {
		return Pipeline{}, fmt.Errorf("pipeline.unresolved_driver: %w", err)
	}

	format, err := highlight.ParseFormat(cfg.String("highlights.format", ""))
	if err != nil {
		return Pipeline{}, fmt.Errorf("pipeline.highlights.format: %w", err)
	}

	return Pipeline{
		UnresolvedDriver: policy,
		Highlights: HighlightOptions{
			Format:        format,
			QueueSize:     cfg.Int("highlights.queue_size", highlight.DefaultAsyncConfig.QueueSize),
			Rate:          cfg.Float("highlights.rate", 0),
			Burst:         cfg.Int("highlights.burst", highlight.DefaultAsyncConfig.Burst),
			RetryAttempts: cfg.Int("highlights.retry.max_attempts", rlerrors.DefaultRetry.MaxAttempts),
			RetryBackoff:  cfg.Duration("highlights.retry.backoff", rlerrors.DefaultRetry.InitialBackoff),
			Outbox:        cfg.String("highlights.outbox", ""),
		},
	}, nil
}
