// Package tui is the interactive terminal client: dashboard, survey wizard,
// spot detail modal and campus map over the same core as the web client.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorAccent  = lipgloss.Color("#3B5BDB")
	colorMuted   = lipgloss.Color("#868E96")
	colorSuccess = lipgloss.Color("#2B8A3E")
	colorError   = lipgloss.Color("#C92A2A")
	colorStar    = lipgloss.Color("#F08C00")
)

// Styles holds the lipgloss styles of every view
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Selected lipgloss.Style
	Focused  lipgloss.Style
	Muted    lipgloss.Style
	Badge    lipgloss.Style
	Stars    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Modal    lipgloss.Style
	Marker   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the styles used by NewApp
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Tab:      lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		TabOn:    lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorAccent),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Focused:  lipgloss.NewStyle().Reverse(true),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Badge:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Stars:    lipgloss.NewStyle().Foreground(colorStar),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(colorError),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		Modal:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1),
		Marker:   lipgloss.NewStyle().Foreground(colorAccent),
		Help:     lipgloss.NewStyle().Foreground(colorMuted),
	}
}
