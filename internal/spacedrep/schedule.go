package spacedrep

import "github.com/abhisek/flashdeck/internal/domain"

// Ease factor bounds. A card starts at MaxEaseFactor.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = domain.InitialEaseFactor
)

// EaseBonus is added to the ease factor after a correct answer.
const EaseBonus = 0.1

// EasePenalty is subtracted from the ease factor after an incorrect answer.
const EasePenalty = 0.2

// MasteryThreshold is the lifetime correct count at which a learning card
// becomes mastered.
const MasteryThreshold = 3

// MinIntervalDays is the shortest review interval.
const MinIntervalDays = 1

// OverdueGraceFactor is the fraction of a card's interval it may sit past
// its review date before it is shown as overdue rather than due.
const OverdueGraceFactor = 0.5
