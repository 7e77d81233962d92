package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Event names and headers: bold
	colorHeader = color.New(color.Bold)

	// Consensus slots: green, the whole point of the tool
	colorConsensus = color.New(color.FgGreen, color.Bold)

	// Partial availability: yellow
	colorPartial = color.New(color.FgYellow)

	// Absent participants: red
	colorAbsent = color.New(color.FgRed)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string    { return colorHeader.Sprint(s) }
func formatConsensus(s string) string { return colorConsensus.Sprint(s) }
func formatPartial(s string) string   { return colorPartial.Sprint(s) }
func formatAbsent(s string) string    { return colorAbsent.Sprint(s) }
func formatMuted(s string) string     { return colorMuted.Sprint(s) }
