package session

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
)

func progressAt(cardID string, next time.Time) domain.CardProgress {
	p := domain.NewCardProgress("p-"+cardID, "s1", cardID)
	p.Status = domain.StatusLearning
	p.NextReviewAt = &next
	return p
}

func TestPlanDeck_Ordering(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cards := deckOf("s1", "new1", "soon", "late", "overdue", "new2", "due")
	progress := []domain.CardProgress{
		domain.NewCardProgress("p-new1", "s1", "new1"),
		progressAt("soon", now.Add(2*time.Hour)),
		progressAt("late", now.AddDate(0, 0, 5)),
		progressAt("overdue", now.AddDate(0, 0, -4)),
		progressAt("due", now.Add(-time.Hour)),
	}

	deck := PlanDeck(cards, progress, now, PlanOptions{})
	want := []string{"overdue", "due", "new1", "new2", "soon", "late"}
	if len(deck) != len(want) {
		t.Fatalf("len(deck) = %d, want %d", len(deck), len(want))
	}
	for i, id := range want {
		if deck[i].ID != id {
			t.Errorf("deck[%d] = %s, want %s", i, deck[i].ID, id)
		}
	}

	due := PlanDeck(cards, progress, now, PlanOptions{DueOnly: true, Limit: 3})
	wantDue := []string{"overdue", "due", "new1"}
	if len(due) != len(wantDue) {
		t.Fatalf("len(due) = %d, want %d", len(due), len(wantDue))
	}
	for i, id := range wantDue {
		if due[i].ID != id {
			t.Errorf("due[%d] = %s, want %s", i, due[i].ID, id)
		}
	}
}

func TestPlanDeck_ShuffleKeepsCards(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cards := deckOf("s1", "a", "b", "c", "d", "e", "f")

	deck := PlanDeck(cards, nil, now, PlanOptions{Shuffle: true, Rand: rand.New(rand.NewPCG(1, 2))})
	if len(deck) != len(cards) {
		t.Fatalf("len(deck) = %d, want %d", len(deck), len(cards))
	}
	seen := make(map[string]bool)
	for _, c := range deck {
		seen[c.ID] = true
	}
	for _, c := range cards {
		if !seen[c.ID] {
			t.Errorf("card %s missing after shuffle", c.ID)
		}
	}
}
