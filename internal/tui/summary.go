package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/session"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// SummaryScreen shows the result of a finished run.
type SummaryScreen struct {
	result session.Result
	rows   []domain.StudySession
}

var _ Screen = (*SummaryScreen)(nil)

// NewSummaryScreen creates a SummaryScreen.
func NewSummaryScreen(result session.Result, rows []domain.StudySession) *SummaryScreen {
	return &SummaryScreen{result: result, rows: rows}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return "Session Complete" }

func (s *SummaryScreen) KeyHints() []KeyHint {
	return []KeyHint{{Key: "any key", Description: "Exit"}}
}

// Result returns the run's totals.
func (s *SummaryScreen) Result() session.Result { return s.result }

func (s *SummaryScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return s, tea.Quit
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	return renderCentered(width, FormatResult(s.result, len(s.rows)))
}

// FormatResult renders run totals as aligned label/value lines.
func FormatResult(r session.Result, sets int) string {
	line := func(label, value string) string {
		return theme.Label.Render(label) + theme.Value.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(line("Cards reviewed", fmt.Sprint(r.CardsReviewed)))
	b.WriteString(line("Correct", theme.Correct.Render(fmt.Sprint(r.CorrectAnswers))))
	b.WriteString(line("Missed", theme.Incorrect.Render(fmt.Sprint(r.IncorrectAnswers))))
	b.WriteString(line("Skipped", fmt.Sprint(r.SkippedCards)))
	b.WriteString(line("Accuracy", fmt.Sprintf("%.0f%%", r.Accuracy()*100)))
	b.WriteString(line("Time", r.Duration().Round(time.Second).String()))
	if sets > 1 {
		b.WriteString(line("Card sets", fmt.Sprint(sets)))
	}
	return strings.TrimRight(b.String(), "\n")
}
