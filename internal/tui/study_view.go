package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/session"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderCentered(width, theme.Incorrect.Render(s.errMsg))
	case s.tracker == nil:
		return renderCentered(width, theme.Hint.Render("Loading cards..."))
	case s.confirmQuit:
		return renderCentered(width, theme.Body.Render("End this session?")+"\n\n"+
			theme.Hint.Render("Y saves your answers so far, A discards them."))
	case s.current() == nil:
		return renderCentered(width, theme.Hint.Render("Saving session..."))
	}

	card := s.current()
	cardWidth := max(min(width-8, 72), 20)

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		RenderProgress(s.idx, len(s.tracker.Deck), cardWidth)))
	b.WriteString("\n\n")

	style := theme.Card
	if s.flipped {
		style = theme.CardFlipped
	}
	body := theme.Title.Render(card.Front)
	if s.flipped {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cardWidth-6)) +
			"\n\n" + theme.Body.Render(card.Back)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Width(cardWidth).Render(body)))
	b.WriteString("\n\n")

	switch {
	case s.hintLoading:
		b.WriteString(renderCentered(width, theme.Hint.Render("Thinking of a hint...")))
	case s.hint != "":
		b.WriteString(renderCentered(width, theme.Hint.Width(cardWidth).Render("Hint: "+s.hint)))
	}

	if last := s.renderLast(); last != "" {
		b.WriteString("\n")
		b.WriteString(renderCentered(width, last))
	}
	return b.String()
}

// renderLast describes the previous answer.
func (s *StudyScreen) renderLast() string {
	var out string
	switch s.lastOutcome {
	case session.OutcomeCorrect:
		out = theme.Correct.Render("Correct")
	case session.OutcomeIncorrect:
		out = theme.Incorrect.Render("Missed")
	case session.OutcomeSkipped:
		return theme.Skipped.Render("Skipped")
	default:
		return ""
	}
	if s.lastNext != nil {
		out += theme.Hint.Render(fmt.Sprintf("  next review %s", s.lastNext.Local().Format("Jan 2")))
	}
	return out
}

func renderCentered(width int, s string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(s)
}
