// Package report renders the end-of-race statistics of a session.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/randalmurphal/raceline/pkg/raceline/event"
	"github.com/randalmurphal/raceline/pkg/raceline/session"
)

// NoLapMarker is shown in place of an absent lap number.
const NoLapMarker = "-"

// Render returns the report for snap as plain text.
func Render(snap session.Snapshot) string {
	return render(lipgloss.NewRenderer(io.Discard), snap)
}

// Write writes the report for snap to w. Headings are styled when w is a
// terminal.
func Write(w io.Writer, snap session.Snapshot) error {
	_, err := io.WriteString(w, render(lipgloss.NewRenderer(w), snap))
	return err
}

// Rows returns one row per logged event: id, type, driver id, and lap.
// Duplicates are listed as logged.
func Rows(events []event.Event) [][]string {
	rows := make([][]string, 0, len(events))
	for _, evt := range events {
		lap := NoLapMarker
		if n := evt.Lap(); n != event.NoLap {
			lap = strconv.Itoa(n)
		}
		rows = append(rows, []string{evt.ID(), string(evt.Type()), evt.DriverID(), lap})
	}
	return rows
}

func render(r *lipgloss.Renderer, snap session.Snapshot) string {
	heading := r.NewStyle().Bold(true)
	label := r.NewStyle().Faint(true)

	var b strings.Builder
	line := func(name string, value any) {
		fmt.Fprintf(&b, "%s %v\n", label.Render(name+":"), value)
	}

	b.WriteString(heading.Render("=== RACE STATS ==="))
	b.WriteString("\n")
	line("Race", fmt.Sprintf("%s (%s)", snap.Race.Name, snap.Race.Circuit))
	line("Laps", snap.Race.TotalLaps)
	line("Total events", len(snap.Events))
	line("Overtakes", snap.Counters.Overtakes)
	line("Pit stops", snap.Counters.PitStops)
	line("Penalties", snap.Counters.Penalties)
	line("DNFs", snap.Counters.DNFs)

	b.WriteString("\n")
	b.WriteString(heading.Render("=== EVENTS ==="))
	b.WriteString("\n")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TYPE", "DRIVER", "LAP").
		Rows(Rows(snap.Events)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := r.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
