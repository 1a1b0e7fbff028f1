package spacedrep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/store"
)

// ComputeNextProgress returns the progress that results from answering the
// card at now. It has no side effects; the caller persists the result.
//
// A correct answer moves new cards to learning with a one day interval and
// scales the interval of learning and mastered cards by the ease factor held
// before the answer. Learning cards become mastered once the lifetime
// correct count reaches MasteryThreshold. An incorrect answer resets the
// interval and demotes mastered cards to learning; new cards stay new.
func ComputeNextProgress(p domain.CardProgress, correct bool, now time.Time) domain.CardProgress {
	next := p
	ease := clampEase(p.EaseFactor)
	interval := max(p.Interval, MinIntervalDays)

	if correct {
		next.CorrectCount++
		switch p.Status {
		case domain.StatusLearning:
			if next.CorrectCount >= MasteryThreshold {
				next.Status = domain.StatusMastered
			}
			interval = scaleInterval(interval, ease)
		case domain.StatusMastered:
			interval = scaleInterval(interval, ease)
		default:
			next.Status = domain.StatusLearning
			interval = MinIntervalDays
		}
		next.EaseFactor = math.Min(ease+EaseBonus, MaxEaseFactor)
	} else {
		next.IncorrectCount++
		if p.Status == domain.StatusMastered {
			next.Status = domain.StatusLearning
		}
		interval = MinIntervalDays
		next.EaseFactor = math.Max(ease-EasePenalty, MinEaseFactor)
	}

	next.Interval = interval
	reviewed := now
	due := now.AddDate(0, 0, interval)
	next.LastReviewedAt = &reviewed
	next.NextReviewAt = &due
	return next
}

func clampEase(ease float64) float64 {
	return math.Min(math.Max(ease, MinEaseFactor), MaxEaseFactor)
}

func scaleInterval(interval int, ease float64) int {
	return max(int(math.Round(float64(interval)*ease)), MinIntervalDays)
}

// Scheduler applies answers to stored card progress.
type Scheduler struct {
	progress store.ProgressRepo
	logger   *slog.Logger
}

// NewScheduler creates a scheduler over the given progress repository.
// A nil logger discards output.
func NewScheduler(progress store.ProgressRepo, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{progress: progress, logger: logger}
}

// RecordAnswer loads the card's progress, computes the next state and
// writes it back with a single update. Store errors are returned as is.
func (s *Scheduler) RecordAnswer(ctx context.Context, cardSetID, cardID string, correct bool, now time.Time) (*domain.CardProgress, error) {
	p, err := s.progress.GetByCard(ctx, cardSetID, cardID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &ProgressNotFoundError{CardSetID: cardSetID, CardID: cardID}
	}
	if err != nil {
		return nil, err
	}

	next := ComputeNextProgress(*p, correct, now)
	if err := s.progress.Update(ctx, p.ID, store.ProgressPatchFrom(next)); err != nil {
		return nil, err
	}

	s.logger.Debug("progress updated",
		"card_id", cardID,
		"correct", correct,
		"status", next.Status,
		"interval", next.Interval,
		"ease", next.EaseFactor,
	)
	if next.Status != p.Status {
		s.logger.Info("card status changed", "card_id", cardID, "from", p.Status, "to", next.Status)
	}
	return &next, nil
}

// Due returns the set's due cards, most overdue first.
func (s *Scheduler) Due(ctx context.Context, cardSetID string, now time.Time) ([]domain.CardProgress, error) {
	all, err := s.progress.ListByCardSet(ctx, cardSetID)
	if err != nil {
		return nil, err
	}
	return DueCards(all, now), nil
}
