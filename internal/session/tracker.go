package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/flashdeck/internal/domain"
)

// Outcome is the learner's answer to one card.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkipped   Outcome = "skipped"
)

// ParseOutcome validates a raw outcome string.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case OutcomeCorrect, OutcomeIncorrect, OutcomeSkipped:
		return o, nil
	}
	return "", &InvalidOutcomeError{Outcome: s}
}

// Graded reports whether the outcome changes card progress.
func (o Outcome) Graded() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}

// Phase is the lifecycle state of a tracker.
type Phase int

const (
	PhaseOpen      Phase = iota // Accepting answers
	PhaseCompleted              // Finished; result frozen
	PhaseAbandoned              // Discarded without a result
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseCompleted:
		return "completed"
	case PhaseAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Answer is one entry in a session's answer log.
type Answer struct {
	CardID      string
	CardSetID   string
	Outcome     Outcome
	TimeSpentMs int64
	At          time.Time
}

// Tracker accumulates the answers of one study run. It is owned by the
// caller and is not safe for concurrent use.
type Tracker struct {
	// ID identifies the run.
	ID string

	// CardSetIDs are the sets being studied, in the order given to Start.
	CardSetIDs []string

	// StartedAt is when the run began.
	StartedAt time.Time

	// CompletedAt is set by the first Finish.
	CompletedAt *time.Time

	// Deck is the ordered list of cards to present.
	Deck []domain.Flashcard

	phase  Phase
	setOf  map[string]string // card ID -> card set ID
	log    []Answer
	result *Result
	rows   []domain.StudySession
}

// Start opens a tracker over the given card sets. Card membership is taken
// from deck so the log can be split per set when the run finishes.
func Start(cardSetIDs []string, deck []domain.Flashcard, now time.Time) (*Tracker, error) {
	if len(cardSetIDs) == 0 {
		return nil, ErrNoCardSets
	}
	inSession := make(map[string]bool, len(cardSetIDs))
	for _, id := range cardSetIDs {
		inSession[id] = true
	}
	setOf := make(map[string]string, len(deck))
	for _, c := range deck {
		if inSession[c.CardSetID] {
			setOf[c.ID] = c.CardSetID
		}
	}
	return &Tracker{
		ID:         uuid.New().String(),
		CardSetIDs: append([]string(nil), cardSetIDs...),
		StartedAt:  now,
		Deck:       deck,
		phase:      PhaseOpen,
		setOf:      setOf,
	}, nil
}

// Phase returns the tracker's lifecycle state.
func (t *Tracker) Phase() Phase { return t.phase }

// CardSetOf returns the set a deck card belongs to.
func (t *Tracker) CardSetOf(cardID string) (string, bool) {
	id, ok := t.setOf[cardID]
	return id, ok
}

// Check reports whether an answer for cardID would be accepted, without
// recording it.
func (t *Tracker) Check(cardID string, outcome Outcome, timeSpentMs int64) error {
	if t.phase != PhaseOpen {
		return ErrSessionCompleted
	}
	if _, err := ParseOutcome(string(outcome)); err != nil {
		return err
	}
	if timeSpentMs < 0 {
		return ErrNegativeTime
	}
	if _, ok := t.setOf[cardID]; !ok {
		return ErrUnknownCard
	}
	return nil
}

// RecordAnswer appends an answer to the log. It does not touch card
// progress.
func (t *Tracker) RecordAnswer(cardID string, outcome Outcome, timeSpentMs int64, at time.Time) error {
	if err := t.Check(cardID, outcome, timeSpentMs); err != nil {
		return err
	}
	t.log = append(t.log, Answer{
		CardID:      cardID,
		CardSetID:   t.setOf[cardID],
		Outcome:     outcome,
		TimeSpentMs: timeSpentMs,
		At:          at,
	})
	return nil
}

// Answers returns a copy of the answer log in the order answers arrived.
func (t *Tracker) Answers() []Answer {
	return append([]Answer(nil), t.log...)
}

// Answered reports whether cardID has an entry in the log.
func (t *Tracker) Answered(cardID string) bool {
	for _, a := range t.log {
		if a.CardID == cardID {
			return true
		}
	}
	return false
}

// Finish folds the log into the final result and completes the tracker.
// Later calls return the same result. Finishing an abandoned tracker
// returns an empty result.
func (t *Tracker) Finish(now time.Time) Result {
	if t.result != nil {
		return *t.result
	}
	r := fold(t.log)
	t.result = &r
	if t.phase == PhaseOpen {
		t.phase = PhaseCompleted
		done := now
		t.CompletedAt = &done
	}
	return r
}

// Abandon discards the run. Nothing is persisted for it.
func (t *Tracker) Abandon() {
	if t.phase == PhaseOpen {
		t.phase = PhaseAbandoned
		t.log = nil
	}
}

// Partition splits the log per card set. Sets without answers are left out.
// Each slice carries the total time of the whole run, not its own share.
func (t *Tracker) Partition() []SetResult {
	total := fold(t.log).TotalTimeSpent

	bySet := make(map[string][]Answer)
	for _, a := range t.log {
		bySet[a.CardSetID] = append(bySet[a.CardSetID], a)
	}

	var out []SetResult
	for _, id := range t.CardSetIDs {
		answers := bySet[id]
		if len(answers) == 0 {
			continue
		}
		r := fold(answers)
		r.TotalTimeSpent = total
		out = append(out, SetResult{CardSetID: id, Result: r})
	}
	return out
}
