package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/domain"
)

// Color palette. Muted so long study sessions stay easy on the eyes.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(22)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	CardFlipped = Card.
			BorderForeground(Secondary)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Skipped = lipgloss.NewStyle().
		Foreground(TextDim)
)

// StatusColor returns the color used for a card's learning status.
func StatusColor(s domain.Status) color.Color {
	switch s {
	case domain.StatusMastered:
		return Success
	case domain.StatusLearning:
		return Accent
	}
	return TextDim
}

// Status renders a learning status label in its color.
func Status(s domain.Status) string {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Render(string(s))
}
