package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/store"
)

func TestAggregator(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	now := day(2024, 1, 3, 18)

	cs := domain.CardSet{Name: "Capitals", Theme: domain.ThemeHistory, SourceType: domain.SourceText}
	_, err = st.CardSetRepo().Create(ctx, &cs)
	require.NoError(t, err)

	for i := range 2 {
		card := domain.Flashcard{CardSetID: cs.ID, Position: i, Front: "q", Back: "a"}
		_, err := st.FlashcardRepo().Create(ctx, &card)
		require.NoError(t, err)
		p := domain.NewCardProgress("", cs.ID, card.ID)
		if i == 0 {
			p.Status = domain.StatusMastered
			p.CorrectCount = 3
		}
		_, err = st.ProgressRepo().Create(ctx, &p)
		require.NoError(t, err)
	}
	for _, s := range []domain.StudySession{
		completedAt(day(2024, 1, 2, 9), 4, 8000),
		completedAt(day(2024, 1, 3, 9), 6, 12000),
	} {
		s.ID = ""
		s.CardSetID = cs.ID
		_, err := st.SessionRepo().Create(ctx, &s)
		require.NoError(t, err)
	}

	agg := NewAggregator(st, func() time.Time { return now })

	got, err := agg.ComputeStats(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.MasteredCards)
	assert.Equal(t, 100.0, got.Accuracy)
	assert.Equal(t, 2000.0, got.AverageTimePerCard)
	assert.Equal(t, 2, got.StudyStreak)
	assert.Equal(t, 2, got.StudySessionsCompleted)
	assert.False(t, got.DailyGoalMet)

	again, err := agg.ComputeStats(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	all, err := agg.ComputeAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *got, all[0])

	history, err := agg.History(ctx, cs.ID, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 6, history[0].CardsReviewed)

	_, err = agg.ComputeStats(ctx, "missing")
	assert.ErrorIs(t, err, ErrCardSetNotFound)
	_, err = agg.History(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrCardSetNotFound)
}
