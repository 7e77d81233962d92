// Package tui provides the terminal user interface for quorum.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/quorum-sh/quorum/internal/tui/theme"
)

// Grid cell dimensions in terminal characters.
const (
	cellWidth  = 6
	cellHeight = 1
	timeGutter = 9 // width of the time label column
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	ColumnHeader lipgloss.Style
	TimeLabel    lipgloss.Style

	LegendName   lipgloss.Style
	LegendAbsent lipgloss.Style
	LegendReason lipgloss.Style

	Status        lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	Help          lipgloss.Style

	InputLabel   lipgloss.Style
	InputFocused lipgloss.Style

	ConnState lipgloss.Style
}

// NewStyles creates styles from a palette.
func NewStyles(p *theme.Palette) *Styles {
	return &Styles{
		palette: p,

		Title:        lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Subtitle:     lipgloss.NewStyle().Foreground(p.FgMuted),
		ColumnHeader: lipgloss.NewStyle().Foreground(p.Fg).Bold(true).Width(cellWidth).Align(lipgloss.Center),
		TimeLabel:    lipgloss.NewStyle().Foreground(p.FgMuted).Width(timeGutter).Align(lipgloss.Right),

		LegendName:   lipgloss.NewStyle().Foreground(p.Fg),
		LegendAbsent: lipgloss.NewStyle().Foreground(p.Absent).Strikethrough(true),
		LegendReason: lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true),

		Status:        lipgloss.NewStyle().Foreground(p.Fg),
		StatusWarning: lipgloss.NewStyle().Foreground(p.Warning),
		StatusError:   lipgloss.NewStyle().Foreground(p.Absent),
		Help:          lipgloss.NewStyle().Foreground(p.FgMuted),

		InputLabel:   lipgloss.NewStyle().Foreground(p.FgMuted),
		InputFocused: lipgloss.NewStyle().Foreground(p.Accent),

		ConnState: lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true),
	}
}

// Cell returns the style for a resolved cell look.
func (s *Styles) Cell(look cellLook) lipgloss.Style {
	st := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	st = st.Background(look.fillColor(s.palette))
	if look.hasFill {
		st = st.Foreground(s.palette.TextOnSelf)
	} else {
		st = st.Foreground(s.palette.FgMuted)
	}
	return st
}
