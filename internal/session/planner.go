package session

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/spacedrep"
)

// PlanOptions controls which cards a run presents and in what order.
type PlanOptions struct {
	// DueOnly drops cards whose next review is still in the future.
	DueOnly bool

	// Shuffle randomizes the final order.
	Shuffle bool

	// Limit caps the number of cards (0 = no cap). Applied after ordering,
	// so due cards are kept first.
	Limit int

	// Rand is the source used when Shuffle is set. Nil uses a random seed.
	Rand *rand.Rand
}

// PlanDeck orders cards for a run: due cards first (most overdue leading),
// then never-reviewed cards in set order, then scheduled cards by how soon
// they come due.
func PlanDeck(cards []domain.Flashcard, progress []domain.CardProgress, now time.Time, opts PlanOptions) []domain.Flashcard {
	byCard := make(map[string]*domain.CardProgress, len(progress))
	for i := range progress {
		byCard[progress[i].CardID] = &progress[i]
	}

	type ranked struct {
		card    domain.Flashcard
		bucket  int // 0 due, 1 new, 2 scheduled
		overdue float64
		dueIn   time.Duration
	}

	var rs []ranked
	for _, c := range cards {
		r := ranked{card: c, bucket: 1}
		if p := byCard[c.ID]; p != nil && p.NextReviewAt != nil {
			if spacedrep.IsDue(p, now) {
				r.bucket = 0
				r.overdue = spacedrep.OverdueDays(p, now)
			} else {
				r.bucket = 2
				r.dueIn = p.NextReviewAt.Sub(now)
			}
		}
		if opts.DueOnly && r.bucket == 2 {
			continue
		}
		rs = append(rs, r)
	}

	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if a.bucket != b.bucket {
			return a.bucket < b.bucket
		}
		switch a.bucket {
		case 0:
			return a.overdue > b.overdue
		case 2:
			return a.dueIn < b.dueIn
		}
		return false
	})

	if opts.Limit > 0 && len(rs) > opts.Limit {
		rs = rs[:opts.Limit]
	}

	deck := make([]domain.Flashcard, len(rs))
	for i, r := range rs {
		deck[i] = r.card
	}

	if opts.Shuffle {
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	}
	return deck
}
