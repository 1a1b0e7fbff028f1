package tui

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/session"
)

// HintSource provides hints for cards that have none cached.
type HintSource interface {
	Hint(ctx context.Context, card *domain.Flashcard) (string, error)
}

// StudyOptions configure a study run.
type StudyOptions struct {
	Service    *session.Service
	CardSetIDs []string
	Plan       session.PlanOptions
	Hints      HintSource // optional
	Clock      func() time.Time
}

type studyReadyMsg struct {
	Tracker *session.Tracker
	Err     error
}

type answerSavedMsg struct {
	Outcome  session.Outcome
	Progress *domain.CardProgress
	Err      error
}

type hintReadyMsg struct {
	CardID string
	Hint   string
	Err    error
}

type studyDoneMsg struct {
	Result session.Result
	Rows   []domain.StudySession
	Err    error
}

// StudyScreen walks through the planned deck: show the front, flip, grade.
type StudyScreen struct {
	opts    StudyOptions
	tracker *session.Tracker
	idx     int
	flipped bool
	shownAt time.Time

	hint        string
	hintLoading bool

	busy        bool
	confirmQuit bool
	lastOutcome session.Outcome
	lastNext    *time.Time
	errMsg      string
}

var (
	_ Screen          = (*StudyScreen)(nil)
	_ KeyHintProvider = (*StudyScreen)(nil)
	_ StatusProvider  = (*StudyScreen)(nil)
	_ Closer          = (*StudyScreen)(nil)
)

// NewStudyScreen creates a StudyScreen. The session starts in Init.
func NewStudyScreen(opts StudyOptions) *StudyScreen {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &StudyScreen{opts: opts}
}

func (s *StudyScreen) Init() tea.Cmd {
	svc, ids, plan := s.opts.Service, s.opts.CardSetIDs, s.opts.Plan
	return func() tea.Msg {
		t, err := svc.Begin(context.Background(), ids, plan)
		return studyReadyMsg{Tracker: t, Err: err}
	}
}

func (s *StudyScreen) Title() string { return "Study" }

func (s *StudyScreen) Status() string {
	if s.tracker == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", min(s.idx+1, len(s.tracker.Deck)), len(s.tracker.Deck))
}

func (s *StudyScreen) KeyHints() []KeyHint {
	switch {
	case s.errMsg != "":
		return []KeyHint{{Key: "any key", Description: "Exit"}}
	case s.confirmQuit:
		return []KeyHint{
			{Key: "Y", Description: "Save and end"},
			{Key: "A", Description: "Abandon"},
			{Key: "N", Description: "Keep going"},
		}
	case !s.flipped:
		return []KeyHint{
			{Key: "Space", Description: "Flip"},
			{Key: "H", Description: "Hint"},
			{Key: "S", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []KeyHint{
		{Key: "1", Description: "Knew it"},
		{Key: "2", Description: "Missed it"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Close abandons the run if it is still open.
func (s *StudyScreen) Close() {
	if s.tracker != nil && s.tracker.Phase() == session.PhaseOpen {
		s.opts.Service.Abandon(s.tracker)
	}
}

func (s *StudyScreen) current() *domain.Flashcard {
	if s.tracker == nil || s.idx >= len(s.tracker.Deck) {
		return nil
	}
	return &s.tracker.Deck[s.idx]
}

func (s *StudyScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studyReadyMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.tracker = msg.Tracker
		if len(s.tracker.Deck) == 0 {
			s.opts.Service.Abandon(s.tracker)
			s.errMsg = "Nothing to study right now."
			return s, nil
		}
		s.shownAt = s.opts.Clock()
		return s, nil

	case answerSavedMsg:
		return s.handleAnswerSaved(msg)

	case hintReadyMsg:
		s.hintLoading = false
		if card := s.current(); card != nil && card.ID == msg.CardID {
			if msg.Err != nil {
				s.hint = "Hint unavailable: " + msg.Err.Error()
			} else {
				s.hint = msg.Hint
				card.Hint = msg.Hint
			}
		}
		return s, nil

	case studyDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		summary := NewSummaryScreen(msg.Result, msg.Rows)
		return s, func() tea.Msg { return ReplaceScreenMsg{Screen: summary} }

	case tea.KeyMsg:
		return s.handleKey(msg.String())
	}
	return s, nil
}

func (s *StudyScreen) handleKey(key string) (Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, tea.Quit
	}
	if s.tracker == nil || s.busy {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.finish()
		case "a", "A":
			s.opts.Service.Abandon(s.tracker)
			return s, tea.Quit
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "s", "S":
		return s, s.answer(session.OutcomeSkipped)
	case "h", "H":
		return s, s.requestHint()
	}

	if !s.flipped {
		switch key {
		case "space", " ", "enter", "f":
			s.flipped = true
		}
		return s, nil
	}

	switch key {
	case "1", "y":
		return s, s.answer(session.OutcomeCorrect)
	case "2", "n":
		return s, s.answer(session.OutcomeIncorrect)
	}
	return s, nil
}

func (s *StudyScreen) answer(outcome session.Outcome) tea.Cmd {
	card := s.current()
	if card == nil {
		return nil
	}
	s.busy = true
	spent := max(s.opts.Clock().Sub(s.shownAt).Milliseconds(), 0)
	svc, t, cardID := s.opts.Service, s.tracker, card.ID
	return func() tea.Msg {
		p, err := svc.Answer(context.Background(), t, cardID, outcome, spent)
		return answerSavedMsg{Outcome: outcome, Progress: p, Err: err}
	}
}

func (s *StudyScreen) handleAnswerSaved(msg answerSavedMsg) (Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.lastOutcome = msg.Outcome
	s.lastNext = nil
	if msg.Progress != nil {
		s.lastNext = msg.Progress.NextReviewAt
	}

	s.idx++
	s.flipped = false
	s.hint = ""
	s.hintLoading = false
	s.shownAt = s.opts.Clock()
	if s.idx >= len(s.tracker.Deck) {
		return s, s.finish()
	}
	return s, nil
}

func (s *StudyScreen) requestHint() tea.Cmd {
	card := s.current()
	if card == nil || s.hintLoading || s.hint != "" {
		return nil
	}
	if card.Hint != "" {
		s.hint = card.Hint
		return nil
	}
	if s.opts.Hints == nil {
		s.hint = "No hint available."
		return nil
	}
	s.hintLoading = true
	hints, c := s.opts.Hints, *card
	return func() tea.Msg {
		h, err := hints.Hint(context.Background(), &c)
		return hintReadyMsg{CardID: c.ID, Hint: h, Err: err}
	}
}

func (s *StudyScreen) finish() tea.Cmd {
	s.busy = true
	svc, t, now := s.opts.Service, s.tracker, s.opts.Clock
	return func() tea.Msg {
		rows, err := svc.Complete(context.Background(), t)
		if err != nil {
			return studyDoneMsg{Err: err}
		}
		return studyDoneMsg{Result: t.Finish(now()), Rows: rows}
	}
}
