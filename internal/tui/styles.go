package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/guessthenumber/internal/client"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	LogPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	WinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	LeaderboardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ECDC4"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	YouStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))
)

// DisableColor renders every style as plain text.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StyleFor returns the style used for a server message category.
func StyleFor(kind client.Kind) lipgloss.Style {
	switch kind {
	case client.KindAccepted:
		return SuccessStyle
	case client.KindRejected:
		return ErrorStyle
	case client.KindRoundStarting, client.KindAlreadyRunning:
		return WarningStyle
	case client.KindWin:
		return WinStyle
	case client.KindLeaderboard:
		return LeaderboardStyle
	default:
		return InfoStyle
	}
}
