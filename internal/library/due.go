package library

import (
	"context"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/spacedrep"
)

// DueCard pairs a due flashcard with its progress.
type DueCard struct {
	domain.Flashcard
	Progress domain.CardProgress `json:"progress"`
}

// Due returns the cards of a set that are due at now, most overdue first.
// The set must exist.
func (l *Library) Due(ctx context.Context, cardSetID string, now time.Time) ([]DueCard, error) {
	set, err := l.Get(ctx, cardSetID)
	if err != nil {
		return nil, err
	}
	progress, err := l.store.ProgressRepo().ListByCardSet(ctx, cardSetID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Flashcard, len(set.Cards))
	for _, c := range set.Cards {
		byID[c.ID] = c
	}
	due := []DueCard{}
	for _, p := range spacedrep.DueCards(progress, now) {
		if c, ok := byID[p.CardID]; ok {
			due = append(due, DueCard{Flashcard: c, Progress: p})
		}
	}
	return due, nil
}
