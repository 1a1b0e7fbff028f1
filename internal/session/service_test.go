package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/store"
)

type fixture struct {
	st  *store.Store
	svc *Service
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{st: st, now: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)}
	f.svc = NewService(Deps{
		Flashcards: st.FlashcardRepo(),
		Progress:   st.ProgressRepo(),
		Sessions:   st.SessionRepo(),
		Clock:      func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) seed(t *testing.T, name string, n int) (string, []string) {
	t.Helper()
	ctx := context.Background()
	cs := domain.CardSet{Name: name, Theme: domain.ThemeScience, SourceType: domain.SourceText}
	_, err := f.st.CardSetRepo().Create(ctx, &cs)
	require.NoError(t, err)

	var ids []string
	for i := range n {
		card := domain.Flashcard{CardSetID: cs.ID, Position: i, Front: "q", Back: "a"}
		_, err := f.st.FlashcardRepo().Create(ctx, &card)
		require.NoError(t, err)
		p := domain.NewCardProgress("", cs.ID, card.ID)
		_, err = f.st.ProgressRepo().Create(ctx, &p)
		require.NoError(t, err)
		ids = append(ids, card.ID)
	}
	return cs.ID, ids
}

func TestService_FullRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	setID, cards := f.seed(t, "Cells", 5)

	tr, err := f.svc.Begin(ctx, []string{setID, setID}, PlanOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{setID}, tr.CardSetIDs)
	assert.Len(t, tr.Deck, 5)

	outcomes := []Outcome{OutcomeCorrect, OutcomeCorrect, OutcomeIncorrect, OutcomeSkipped, OutcomeCorrect}
	times := []int64{8000, 12000, 15000, 5000, 10000}
	for i, id := range cards {
		p, err := f.svc.Answer(ctx, tr, id, outcomes[i], times[i])
		require.NoError(t, err)
		if outcomes[i] == OutcomeSkipped {
			assert.Nil(t, p)
		} else {
			require.NotNil(t, p)
		}
	}

	rows, err := f.svc.Complete(ctx, tr)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].CardsReviewed)
	assert.Equal(t, 3, rows[0].CorrectAnswers)
	assert.Equal(t, 1, rows[0].IncorrectAnswers)
	assert.Equal(t, 1, rows[0].SkippedCards)
	assert.Equal(t, int64(50000), rows[0].TotalTimeSpent)

	stored, err := f.st.SessionRepo().ListByCardSet(ctx, setID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Completed())

	first, err := f.st.ProgressRepo().GetByCard(ctx, setID, cards[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLearning, first.Status)
	assert.Equal(t, 1, first.CorrectCount)

	wrong, err := f.st.ProgressRepo().GetByCard(ctx, setID, cards[2])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, wrong.Status)
	assert.Equal(t, 1, wrong.IncorrectCount)
	assert.InDelta(t, 2.3, wrong.EaseFactor, 1e-9)

	skipped, err := f.st.ProgressRepo().GetByCard(ctx, setID, cards[3])
	require.NoError(t, err)
	assert.Nil(t, skipped.LastReviewedAt)
	assert.Equal(t, 0, skipped.Reviews())
}

func TestService_CompleteTwiceWritesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	setID, cards := f.seed(t, "Verbs", 2)

	tr, err := f.svc.Begin(ctx, []string{setID}, PlanOptions{})
	require.NoError(t, err)
	_, err = f.svc.Answer(ctx, tr, cards[0], OutcomeCorrect, 1000)
	require.NoError(t, err)

	first, err := f.svc.Complete(ctx, tr)
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	second, err := f.svc.Complete(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := f.st.SessionRepo().ListByCardSet(ctx, setID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	_, err = f.svc.Answer(ctx, tr, cards[1], OutcomeCorrect, 1000)
	assert.True(t, errors.Is(err, ErrSessionCompleted))
}

func TestService_MultiSetRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	setA, cardsA := f.seed(t, "A", 2)
	setB, _ := f.seed(t, "B", 2)
	setC, cardsC := f.seed(t, "C", 1)

	tr, err := f.svc.Begin(ctx, []string{setA, setB, setC}, PlanOptions{})
	require.NoError(t, err)
	_, err = f.svc.Answer(ctx, tr, cardsA[0], OutcomeCorrect, 4000)
	require.NoError(t, err)
	_, err = f.svc.Answer(ctx, tr, cardsC[0], OutcomeIncorrect, 6000)
	require.NoError(t, err)

	rows, err := f.svc.Complete(ctx, tr)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, setA, rows[0].CardSetID)
	assert.Equal(t, setC, rows[1].CardSetID)
	for _, r := range rows {
		assert.Equal(t, int64(10000), r.TotalTimeSpent)
	}

	none, err := f.st.SessionRepo().ListByCardSet(ctx, setB)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_AbandonStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	setID, cards := f.seed(t, "Rivers", 1)

	tr, err := f.svc.Begin(ctx, []string{setID}, PlanOptions{})
	require.NoError(t, err)
	_, err = f.svc.Answer(ctx, tr, cards[0], OutcomeCorrect, 1000)
	require.NoError(t, err)

	f.svc.Abandon(tr)
	_, err = f.svc.Complete(ctx, tr)
	assert.ErrorIs(t, err, ErrSessionCompleted)

	stored, err := f.st.SessionRepo().ListByCardSet(ctx, setID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// The graded answer already moved the card forward.
	p, err := f.st.ProgressRepo().GetByCard(ctx, setID, cards[0])
	require.NoError(t, err)
	assert.Equal(t, 1, p.CorrectCount)
}

func TestService_RejectsBeforeWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	setID, cards := f.seed(t, "Tides", 1)

	tr, err := f.svc.Begin(ctx, []string{setID}, PlanOptions{})
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, tr, cards[0], Outcome("partial"), 10)
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	_, err = f.svc.Answer(ctx, tr, "nope", OutcomeCorrect, 10)
	assert.ErrorIs(t, err, ErrUnknownCard)

	p, err := f.st.ProgressRepo().GetByCard(ctx, setID, cards[0])
	require.NoError(t, err)
	assert.Equal(t, 0, p.Reviews())
	assert.Empty(t, tr.Answers())
}

func TestService_BeginWithoutSets(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Begin(context.Background(), []string{"", ""}, PlanOptions{})
	assert.ErrorIs(t, err, ErrNoCardSets)
}
