package store

import (
	"context"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// CardSetPatch holds the card set fields to change. Nil fields are left as is.
type CardSetPatch struct {
	Name        *string
	Description *string
	Theme       *domain.Theme
	Tags        []string // nil = unchanged
}

// FlashcardPatch holds the flashcard fields to change.
type FlashcardPatch struct {
	Front   *string
	Back    *string
	Hint    *string
	Details *string
}

// ProgressPatch holds the progress fields to change.
type ProgressPatch struct {
	Status         *domain.Status
	CorrectCount   *int
	IncorrectCount *int
	EaseFactor     *float64
	Interval       *int
	LastReviewedAt *time.Time
	NextReviewAt   *time.Time
}

// ProgressPatchFrom builds a patch that overwrites every mutable field with
// the values in p.
func ProgressPatchFrom(p domain.CardProgress) ProgressPatch {
	return ProgressPatch{
		Status:         &p.Status,
		CorrectCount:   &p.CorrectCount,
		IncorrectCount: &p.IncorrectCount,
		EaseFactor:     &p.EaseFactor,
		Interval:       &p.Interval,
		LastReviewedAt: p.LastReviewedAt,
		NextReviewAt:   p.NextReviewAt,
	}
}

// SessionPatch holds the session fields to change.
type SessionPatch struct {
	CompletedAt      *time.Time
	CardsReviewed    *int
	CorrectAnswers   *int
	IncorrectAnswers *int
	SkippedCards     *int
	TotalTimeSpent   *int64
}

// CardSetRepo manages card set records.
type CardSetRepo interface {
	Get(ctx context.Context, id string) (*domain.CardSet, error)
	List(ctx context.Context) ([]domain.CardSet, error)
	Create(ctx context.Context, cs *domain.CardSet) (string, error)
	Update(ctx context.Context, id string, patch CardSetPatch) error
	Delete(ctx context.Context, id string) error
}

// FlashcardRepo manages flashcard records.
type FlashcardRepo interface {
	Get(ctx context.Context, id string) (*domain.Flashcard, error)
	ListByCardSet(ctx context.Context, cardSetID string) ([]domain.Flashcard, error)
	Create(ctx context.Context, card *domain.Flashcard) (string, error)
	Update(ctx context.Context, id string, patch FlashcardPatch) error
	Delete(ctx context.Context, id string) error
	DeleteByCardSet(ctx context.Context, cardSetID string) error
}

// ProgressRepo manages card progress records.
type ProgressRepo interface {
	Get(ctx context.Context, id string) (*domain.CardProgress, error)
	GetByCard(ctx context.Context, cardSetID, cardID string) (*domain.CardProgress, error)
	ListByCardSet(ctx context.Context, cardSetID string) ([]domain.CardProgress, error)
	Create(ctx context.Context, p *domain.CardProgress) (string, error)
	Update(ctx context.Context, id string, patch ProgressPatch) error
	Delete(ctx context.Context, id string) error
	DeleteByCardSet(ctx context.Context, cardSetID string) error
}

// SessionRepo manages study session records.
type SessionRepo interface {
	Get(ctx context.Context, id string) (*domain.StudySession, error)
	ListByCardSet(ctx context.Context, cardSetID string) ([]domain.StudySession, error)
	// ListCompleted returns completed sessions for a set, most recent first.
	ListCompleted(ctx context.Context, cardSetID string, limit int) ([]domain.StudySession, error)
	Create(ctx context.Context, s *domain.StudySession) (string, error)
	// Update fails with ErrSessionCompleted once the session has a
	// completion time.
	Update(ctx context.Context, id string, patch SessionPatch) error
	Delete(ctx context.Context, id string) error
	DeleteByCardSet(ctx context.Context, cardSetID string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage per model.
type LLMUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns the event with the given id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByModel sums token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
