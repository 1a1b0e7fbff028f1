package spacedrep

import (
	"sort"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
)

// IsDue returns true if the card should be reviewed at now. Cards that have
// never been reviewed are always due.
func IsDue(p *domain.CardProgress, now time.Time) bool {
	if p.NextReviewAt == nil {
		return true
	}
	return !now.Before(*p.NextReviewAt)
}

// OverdueDays returns how many days past due the card is. Returns 0 if not
// yet due or never reviewed.
func OverdueDays(p *domain.CardProgress, now time.Time) float64 {
	if p.NextReviewAt == nil || now.Before(*p.NextReviewAt) {
		return 0
	}
	return now.Sub(*p.NextReviewAt).Hours() / 24.0
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func DaysUntilReview(p *domain.CardProgress, now time.Time) int {
	if IsDue(p, now) {
		return 0
	}
	return int(p.NextReviewAt.Sub(now).Hours()/24.0) + 1
}

// ReviewStatus describes a card's review status for display.
type ReviewStatus string

const (
	ReviewNew       ReviewStatus = "new"
	ReviewDue       ReviewStatus = "due"
	ReviewOverdue   ReviewStatus = "overdue"
	ReviewScheduled ReviewStatus = "scheduled"
)

// Status returns the review status for UI display. A card is overdue once
// it has sat past its review date for more than half its interval.
func Status(p *domain.CardProgress, now time.Time) ReviewStatus {
	switch {
	case p.NextReviewAt == nil:
		return ReviewNew
	case !IsDue(p, now):
		return ReviewScheduled
	case OverdueDays(p, now) > float64(p.Interval)*OverdueGraceFactor:
		return ReviewOverdue
	default:
		return ReviewDue
	}
}

// DueCards returns the progress records due at now, most overdue first.
// Never-reviewed cards sort after reviewed ones.
func DueCards(progress []domain.CardProgress, now time.Time) []domain.CardProgress {
	var due []domain.CardProgress
	for i := range progress {
		if IsDue(&progress[i], now) {
			due = append(due, progress[i])
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := &due[i], &due[j]
		if (a.NextReviewAt == nil) != (b.NextReviewAt == nil) {
			return b.NextReviewAt == nil
		}
		oa, ob := OverdueDays(a, now), OverdueDays(b, now)
		if oa != ob {
			return oa > ob
		}
		return a.CardID < b.CardID
	})
	return due
}

// CountDue returns how many cards are due at now.
func CountDue(progress []domain.CardProgress, now time.Time) int {
	n := 0
	for i := range progress {
		if IsDue(&progress[i], now) {
			n++
		}
	}
	return n
}
