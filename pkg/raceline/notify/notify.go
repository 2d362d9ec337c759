// Package notify delivers team notifications.
//
// A Router maps team names to Channels. Messages for a team with no
// registered channel go to the fallback channel with Notice.Fallback set,
// so the channel can show the raw team name. Delivery failures are logged
// and never reported back to the caller.
package notify

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Notice is one message addressed to a team.
type Notice struct {
	Team    string
	Message string

	// Fallback is true when no channel is registered for Team.
	Fallback bool
}

// Channel writes notices somewhere a team will see them.
type Channel interface {
	Deliver(ctx context.Context, n Notice) error
}

// ChannelFunc adapts a function to the Channel interface.
type ChannelFunc func(ctx context.Context, n Notice) error

// Deliver implements Channel.
func (f ChannelFunc) Deliver(ctx context.Context, n Notice) error {
	return f(ctx, n)
}

// Notifier sends a message to a team. Implementations must not fail the
// caller; there is no error to handle.
type Notifier interface {
	Notify(ctx context.Context, team, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, team, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, team, message string) {
	f(ctx, team, message)
}

// Discard is a Notifier that drops every message.
var Discard Notifier = NotifierFunc(func(context.Context, string, string) {})

// Router dispatches notices to per-team channels.
type Router struct {
	mu       sync.RWMutex
	channels map[string]Channel
	fallback Channel
	logger   *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the logger for delivery failures.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a Router. A nil fallback logs notices for unknown
// teams through the router's logger.
func NewRouter(fallback Channel, opts ...RouterOption) *Router {
	r := &Router{
		channels: make(map[string]Channel),
		fallback: fallback,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.fallback == nil {
		r.fallback = NewLogChannel(r.logger)
	}
	return r
}

// Route registers ch for team, replacing any previous channel.
// Returns the Router for chaining.
func (r *Router) Route(team string, ch Channel) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[team] = ch
	return r
}

// Routes reports whether team has its own channel.
func (r *Router) Routes(team string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channels[team] != nil
}

// Teams returns the routed team names, sorted.
func (r *Router) Teams() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	teams := make([]string, 0, len(r.channels))
	for team := range r.channels {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// Notify implements Notifier.
func (r *Router) Notify(ctx context.Context, team, message string) {
	r.mu.RLock()
	ch, ok := r.channels[team]
	if !ok || ch == nil {
		ch, ok = r.fallback, false
	}
	r.mu.RUnlock()

	n := Notice{Team: team, Message: message, Fallback: !ok}
	if err := ch.Deliver(ctx, n); err != nil {
		r.logger.Warn("notification delivery failed",
			slog.String("team", team),
			slog.Bool("fallback", n.Fallback),
			slog.String("error", err.Error()),
		)
	}
}

// LogChannel writes notices to a logger.
type LogChannel struct {
	logger *slog.Logger
}

// NewLogChannel creates a LogChannel. A nil logger uses slog.Default().
func NewLogChannel(logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogChannel{logger: logger}
}

// Deliver implements Channel.
func (c *LogChannel) Deliver(ctx context.Context, n Notice) error {
	c.logger.InfoContext(ctx, "team notification",
		slog.String("team", n.Team),
		slog.String("message", n.Message),
		slog.Bool("fallback", n.Fallback),
	)
	return nil
}
