package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TeamStyle describes how a team's notices look on a console.
type TeamStyle struct {
	Name  string `json:"name" yaml:"name"`
	Badge string `json:"badge" yaml:"badge"`
	Color string `json:"color" yaml:"color"`
}

// FallbackLabel prefixes notices for teams without a channel.
const FallbackLabel = "Other team"

// DefaultTeams returns the built-in team styles.
func DefaultTeams() []TeamStyle {
	return []TeamStyle{
		{Name: "Ferrari", Badge: "🔥", Color: "#dc0000"},
		{Name: "Mercedes", Badge: "⭐", Color: "#00d2be"},
	}
}

// ConsoleChannel writes one styled line per notice:
//
//	<badge> [<team>] <message>
//
// Fallback notices are written as "[Other team] <team> <message>".
type ConsoleChannel struct {
	mu    sync.Mutex
	w     io.Writer
	badge string
	label lipgloss.Style
}

// NewConsoleChannel creates a ConsoleChannel for style writing to w.
// Colours are only emitted when w is a terminal.
func NewConsoleChannel(w io.Writer, style TeamStyle) *ConsoleChannel {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Bold(true)
	if style.Color != "" {
		label = label.Foreground(lipgloss.Color(style.Color))
	}
	return &ConsoleChannel{w: w, badge: style.Badge, label: label}
}

// Deliver implements Channel.
func (c *ConsoleChannel) Deliver(_ context.Context, n Notice) error {
	var line string
	switch {
	case n.Fallback:
		line = fmt.Sprintf("%s %s %s", c.label.Render("["+FallbackLabel+"]"), n.Team, n.Message)
	case c.badge != "":
		line = fmt.Sprintf("%s %s %s", c.badge, c.label.Render("["+n.Team+"]"), n.Message)
	default:
		line = fmt.Sprintf("%s %s", c.label.Render("["+n.Team+"]"), n.Message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, line)
	return err
}

// NewConsoleRouter builds a Router with one ConsoleChannel per style and
// an unstyled fallback channel, all writing to w.
func NewConsoleRouter(w io.Writer, styles []TeamStyle, logger *slog.Logger) *Router {
	r := NewRouter(NewConsoleChannel(w, TeamStyle{}), WithLogger(logger))
	for _, style := range styles {
		r.Route(style.Name, NewConsoleChannel(w, style))
	}
	return r
}
