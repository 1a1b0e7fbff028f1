package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/spacedrep"
	"github.com/abhisek/flashdeck/internal/store"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Flashcards store.FlashcardRepo
	Progress   store.ProgressRepo
	Sessions   store.SessionRepo

	// Logger receives structured logs. Nil discards them.
	Logger *slog.Logger

	// Clock returns the current time. Nil uses time.Now.
	Clock func() time.Time
}

// Service runs study sessions: it plans the deck, applies each graded answer
// to card progress and persists the finished run.
type Service struct {
	cards    store.FlashcardRepo
	progress store.ProgressRepo
	sessions store.SessionRepo
	sched    *spacedrep.Scheduler
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a study Service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := d.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		cards:    d.Flashcards,
		progress: d.Progress,
		sessions: d.Sessions,
		sched:    spacedrep.NewScheduler(d.Progress, logger),
		logger:   logger,
		now:      now,
	}
}

// Begin loads the cards of the given sets, plans the deck and opens a
// tracker. Duplicate set IDs are ignored.
func (s *Service) Begin(ctx context.Context, cardSetIDs []string, opts PlanOptions) (*Tracker, error) {
	seen := make(map[string]bool, len(cardSetIDs))
	var ids []string
	for _, id := range cardSetIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoCardSets
	}

	var (
		cards    []domain.Flashcard
		progress []domain.CardProgress
	)
	for _, id := range ids {
		c, err := s.cards.ListByCardSet(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load cards for %s: %w", id, err)
		}
		p, err := s.progress.ListByCardSet(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load progress for %s: %w", id, err)
		}
		cards = append(cards, c...)
		progress = append(progress, p...)
	}

	now := s.now()
	deck := PlanDeck(cards, progress, now, opts)
	t, err := Start(ids, deck, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("study session started", "session_id", t.ID, "card_sets", len(ids), "cards", len(deck))
	return t, nil
}

// Answer records one answer. Graded answers update the card's progress
// first; the answer joins the log only once that write succeeded. Skipped
// answers leave progress alone and return nil progress.
func (s *Service) Answer(ctx context.Context, t *Tracker, cardID string, outcome Outcome, timeSpentMs int64) (*domain.CardProgress, error) {
	if err := t.Check(cardID, outcome, timeSpentMs); err != nil {
		return nil, err
	}

	now := s.now()
	var next *domain.CardProgress
	if outcome.Graded() {
		setID, _ := t.CardSetOf(cardID)
		p, err := s.sched.RecordAnswer(ctx, setID, cardID, outcome == OutcomeCorrect, now)
		if err != nil {
			return nil, err
		}
		next = p
	}

	if err := t.RecordAnswer(cardID, outcome, timeSpentMs, now); err != nil {
		return nil, err
	}
	return next, nil
}

// Complete finishes the tracker and stores one completed StudySession per
// card set that received answers. Calling it again returns the stored rows
// without writing. If a write fails, a later call resumes with the sets not
// yet stored.
func (s *Service) Complete(ctx context.Context, t *Tracker) ([]domain.StudySession, error) {
	if t.Phase() == PhaseAbandoned {
		return nil, ErrSessionCompleted
	}

	total := t.Finish(s.now())
	parts := t.Partition()
	if len(t.rows) == len(parts) && t.rows != nil {
		return t.rows, nil
	}

	stored := make(map[string]bool, len(t.rows))
	for _, r := range t.rows {
		stored[r.CardSetID] = true
	}
	for _, part := range parts {
		if stored[part.CardSetID] {
			continue
		}
		row := domain.StudySession{
			CardSetID:        part.CardSetID,
			StartedAt:        t.StartedAt,
			CompletedAt:      t.CompletedAt,
			CardsReviewed:    part.CardsReviewed,
			CorrectAnswers:   part.CorrectAnswers,
			IncorrectAnswers: part.IncorrectAnswers,
			SkippedCards:     part.SkippedCards,
			TotalTimeSpent:   part.TotalTimeSpent,
		}
		if _, err := s.sessions.Create(ctx, &row); err != nil {
			return nil, fmt.Errorf("save session for %s: %w", part.CardSetID, err)
		}
		t.rows = append(t.rows, row)
	}
	if t.rows == nil {
		t.rows = []domain.StudySession{}
	}

	s.logger.Info("study session completed",
		"session_id", t.ID,
		"reviewed", total.CardsReviewed,
		"correct", total.CorrectAnswers,
		"incorrect", total.IncorrectAnswers,
		"skipped", total.SkippedCards,
		"time_ms", total.TotalTimeSpent,
		"rows", len(t.rows),
	)
	return t.rows, nil
}

// Abandon discards an open run. Progress written for answered cards stays.
func (s *Service) Abandon(t *Tracker) {
	if t.Phase() != PhaseOpen {
		return
	}
	answered := len(t.log)
	t.Abandon()
	s.logger.Info("study session abandoned", "session_id", t.ID, "answered", answered)
}
