package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/store"
)

// Aggregator computes learning statistics from stored records. Nothing is
// cached: every call reads the store again.
type Aggregator struct {
	sets     store.CardSetRepo
	cards    store.FlashcardRepo
	progress store.ProgressRepo
	sessions store.SessionRepo
	now      func() time.Time
}

// NewAggregator creates an Aggregator over the store. A nil clock uses
// time.Now.
func NewAggregator(s *store.Store, clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{
		sets:     s.CardSetRepo(),
		cards:    s.FlashcardRepo(),
		progress: s.ProgressRepo(),
		sessions: s.SessionRepo(),
		now:      clock,
	}
}

// ComputeStats returns the statistics of one card set.
func (a *Aggregator) ComputeStats(ctx context.Context, cardSetID string) (*LearningStats, error) {
	if _, err := a.sets.Get(ctx, cardSetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCardSetNotFound, cardSetID)
		}
		return nil, err
	}
	in, err := a.load(ctx, cardSetID)
	if err != nil {
		return nil, err
	}
	st := Compute(in, a.now())
	return &st, nil
}

// ComputeAll returns statistics for every card set, in store list order.
func (a *Aggregator) ComputeAll(ctx context.Context) ([]LearningStats, error) {
	sets, err := a.sets.List(ctx)
	if err != nil {
		return nil, err
	}
	now := a.now()
	out := make([]LearningStats, 0, len(sets))
	for _, cs := range sets {
		in, err := a.load(ctx, cs.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Compute(in, now))
	}
	return out, nil
}

// History lists completed sessions of a set, most recent first. A limit
// of 0 returns all of them.
func (a *Aggregator) History(ctx context.Context, cardSetID string, limit int) ([]domain.StudySession, error) {
	if _, err := a.sets.Get(ctx, cardSetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCardSetNotFound, cardSetID)
		}
		return nil, err
	}
	return a.sessions.ListCompleted(ctx, cardSetID, limit)
}

func (a *Aggregator) load(ctx context.Context, cardSetID string) (Input, error) {
	cards, err := a.cards.ListByCardSet(ctx, cardSetID)
	if err != nil {
		return Input{}, fmt.Errorf("load cards: %w", err)
	}
	progress, err := a.progress.ListByCardSet(ctx, cardSetID)
	if err != nil {
		return Input{}, fmt.Errorf("load progress: %w", err)
	}
	sessions, err := a.sessions.ListByCardSet(ctx, cardSetID)
	if err != nil {
		return Input{}, fmt.Errorf("load sessions: %w", err)
	}
	return Input{CardSetID: cardSetID, Cards: cards, Progress: progress, Sessions: sessions}, nil
}
