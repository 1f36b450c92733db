package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorGreen = lipgloss.Color("#00C851")
	ColorBlue  = lipgloss.Color("#4FACFE")
	ColorCyan  = lipgloss.Color("#00F2FE")
	ColorGray  = lipgloss.Color("240")
	ColorRed   = lipgloss.Color("#FF4444")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorNavy  = lipgloss.Color("#1E2A44")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)

	headerStyle = lipgloss.NewStyle().
			Background(ColorBlue).
			Foreground(ColorWhite).
			Padding(0, 2).
			Align(lipgloss.Center)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(ColorGreen).
			Padding(0, 1)

	cardStyle = activeCardStyle.BorderForeground(ColorBlue)

	buttonStyle = lipgloss.NewStyle().
			Background(ColorGreen).
			Foreground(ColorWhite).
			Bold(true).
			Padding(0, 2)

	blueButtonStyle = buttonStyle.Background(ColorBlue)

	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)

	bannerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#E3F2FD")).
			Foreground(ColorNavy).
			Padding(0, 2)

	successStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(ColorGray)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorGray).
			Padding(0, 1)
)
