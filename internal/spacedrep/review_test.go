package spacedrep

import (
	"testing"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
)

func reviewed(next time.Time, interval int) *domain.CardProgress {
	p := domain.NewCardProgress("p", "set1", "c")
	p.Status = domain.StatusLearning
	p.Interval = interval
	p.NextReviewAt = &next
	return &p
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    *domain.CardProgress
		want bool
	}{
		{"never reviewed", &domain.CardProgress{}, true},
		{"before date", reviewed(now.Add(24*time.Hour), 1), false},
		{"on date", reviewed(now, 1), true},
		{"after date", reviewed(now.Add(-48*time.Hour), 1), true},
	}
	for _, tt := range tests {
		if got := IsDue(tt.p, now); got != tt.want {
			t.Errorf("%s: IsDue() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOverdueDays(t *testing.T) {
	now := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)

	if got := OverdueDays(reviewed(now.Add(48*time.Hour), 3), now); got != 0 {
		t.Errorf("OverdueDays() not due = %f, want 0", got)
	}
	if got := OverdueDays(reviewed(now.Add(-36*time.Hour), 3), now); got != 1.5 {
		t.Errorf("OverdueDays() = %f, want 1.5", got)
	}
	if got := OverdueDays(&domain.CardProgress{}, now); got != 0 {
		t.Errorf("OverdueDays() never reviewed = %f, want 0", got)
	}
}

func TestDaysUntilReview(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if got := DaysUntilReview(reviewed(now.Add(-time.Hour), 1), now); got != 0 {
		t.Errorf("DaysUntilReview() due = %d, want 0", got)
	}
	if got := DaysUntilReview(reviewed(now.Add(50*time.Hour), 3), now); got != 3 {
		t.Errorf("DaysUntilReview() = %d, want 3", got)
	}
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    *domain.CardProgress
		want ReviewStatus
	}{
		{"never reviewed", &domain.CardProgress{Interval: 1}, ReviewNew},
		{"scheduled", reviewed(now.AddDate(0, 0, 2), 3), ReviewScheduled},
		{"just due", reviewed(now.Add(-time.Hour), 4), ReviewDue},
		// Interval 4 gives two days of grace.
		{"overdue", reviewed(now.AddDate(0, 0, -3), 4), ReviewOverdue},
	}
	for _, tt := range tests {
		if got := Status(tt.p, now); got != tt.want {
			t.Errorf("%s: Status() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDueCards_Ordering(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	at := func(d int) *time.Time { v := now.AddDate(0, 0, d); return &v }

	progress := []domain.CardProgress{
		{CardID: "fresh", Interval: 1},
		{CardID: "later", Interval: 3, NextReviewAt: at(2)},
		{CardID: "one-day", Interval: 1, NextReviewAt: at(-1)},
		{CardID: "five-days", Interval: 1, NextReviewAt: at(-5)},
	}

	due := DueCards(progress, now)
	want := []string{"five-days", "one-day", "fresh"}
	if len(due) != len(want) {
		t.Fatalf("len(due) = %d, want %d", len(due), len(want))
	}
	for i, id := range want {
		if due[i].CardID != id {
			t.Errorf("due[%d] = %s, want %s", i, due[i].CardID, id)
		}
	}
	if got := CountDue(progress, now); got != 3 {
		t.Errorf("CountDue() = %d, want 3", got)
	}
}
