package cardgen

import (
	"strings"

	"github.com/abhisek/flashdeck/internal/domain"
)

// maxSideLen matches the flashcard record limit.
const maxSideLen = 10000

// normalizeFront folds case and whitespace so near-identical fronts
// compare equal.
func normalizeFront(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// clean drops cards with a blank or oversized side, then removes later
// duplicates of the same front. Order is preserved.
func clean(raw []cardOutput, max int) []domain.CardDraft {
	seen := make(map[string]bool, len(raw))
	out := make([]domain.CardDraft, 0, len(raw))
	for _, c := range raw {
		if c.Front == nil || c.Back == nil {
			continue
		}
		front := strings.TrimSpace(*c.Front)
		back := strings.TrimSpace(*c.Back)
		if front == "" || back == "" || len(front) > maxSideLen || len(back) > maxSideLen {
			continue
		}
		key := normalizeFront(front)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.CardDraft{Front: front, Back: back})
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
