package ui

import (
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

// dimColor picks a gray readable against the detected terminal background.
func dimColor() lipgloss.Color {
	if te.HasDarkBackground() {
		return lipgloss.Color("241")
	}
	return lipgloss.Color("248")
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AD58B4")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EE6FF8")).
			Bold(true)

	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ECFD65"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Strikethrough(true)
	dimStyle        = lipgloss.NewStyle().Foreground(dimColor())
	playingRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)

	statusPlayingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	statusPausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	statusIdleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#A550DF")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(dimColor())

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#AD58B4")).
			Padding(1, 3).
			Align(lipgloss.Center)
)

// statusIcon renders the play state glyph for the status bar.
func statusIcon(playing, paused bool) string {
	switch {
	case playing:
		return statusPlayingStyle.Render("▶")
	case paused:
		return statusPausedStyle.Render("⏸")
	default:
		return statusIdleStyle.Render("■")
	}
}
