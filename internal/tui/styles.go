package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JPM1118/harerace/internal/race"
)

var (
	// Colors
	colorCue      = lipgloss.Color("15") // white
	colorResult   = lipgloss.Color("11") // bright yellow
	colorHeader   = lipgloss.Color("12") // bright blue
	colorMuted    = lipgloss.Color("8")  // dim
	colorRunning  = lipgloss.Color("2")  // green
	colorFinished = lipgloss.Color("3")  // yellow
	colorWarn     = lipgloss.Color("1")  // red

	// Styles
	cueStyle = lipgloss.NewStyle().
			Foreground(colorCue).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(colorResult).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	notificationBarStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			Bold(true)
)

// textStyle returns the canvas style for a race text overlay.
func textStyle(kind race.TextKind) lipgloss.Style {
	switch kind {
	case race.TextResult:
		return resultStyle
	default:
		return cueStyle
	}
}

// stateStyle returns the status-line style for a race phase.
func stateStyle(s race.State) lipgloss.Style {
	switch s {
	case race.StateRunning:
		return lipgloss.NewStyle().Foreground(colorRunning).Bold(true)
	case race.StateFinished:
		return lipgloss.NewStyle().Foreground(colorFinished)
	case race.StateCountdown:
		return lipgloss.NewStyle().Foreground(colorCue)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}
