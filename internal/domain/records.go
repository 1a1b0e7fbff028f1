package domain

import "time"

// Status is the mastery status of a single card.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusMastered Status = "mastered"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusMastered:
		return true
	}
	return false
}

// Theme groups card sets for browsing.
type Theme string

const (
	ThemeDefault     Theme = "default"
	ThemeScience     Theme = "science"
	ThemeHistory     Theme = "history"
	ThemeLanguage    Theme = "language"
	ThemeProgramming Theme = "programming"
	ThemeMath        Theme = "math"
	ThemeOther       Theme = "other"
)

// Themes lists every theme in display order.
var Themes = []Theme{
	ThemeDefault, ThemeScience, ThemeHistory, ThemeLanguage,
	ThemeProgramming, ThemeMath, ThemeOther,
}

// SourceType records where a card set's content came from.
type SourceType string

const (
	SourceFile     SourceType = "file"
	SourceURL      SourceType = "url"
	SourceText     SourceType = "text"
	SourceSheet    SourceType = "sheet"
	SourceMarkdown SourceType = "markdown"
	SourceGit      SourceType = "git"
)

// Initial scheduling values for a card that has never been reviewed.
const (
	InitialEaseFactor = 2.5
	InitialInterval   = 1
)

// CardSet is a named collection of flashcards.
type CardSet struct {
	ID          string     `json:"id" validate:"required"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Theme       Theme      `json:"theme" validate:"oneof=default science history language programming math other"`
	Tags        []string   `json:"tags" validate:"dive,required,max=50"`
	SourceType  SourceType `json:"sourceType" validate:"oneof=file url text sheet markdown git"`
	SourceValue string     `json:"sourceValue"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HasTags reports whether the set carries every tag in tags.
func (cs *CardSet) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, t := range cs.Tags {
			if t == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Flashcard is a single front/back pair owned by a card set.
type Flashcard struct {
	ID        string    `json:"id" validate:"required"`
	CardSetID string    `json:"cardSetId" validate:"required"`
	Position  int       `json:"position" validate:"gte=0"`
	Front     string    `json:"front" validate:"required,max=10000"`
	Back      string    `json:"back" validate:"required,max=10000"`
	Hint      string    `json:"hint,omitempty"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CardProgress is the durable spaced repetition state of one flashcard.
type CardProgress struct {
	ID             string     `json:"id" validate:"required"`
	CardID         string     `json:"cardId" validate:"required"`
	CardSetID      string     `json:"cardSetId" validate:"required"`
	Status         Status     `json:"status" validate:"oneof=new learning mastered"`
	CorrectCount   int        `json:"correctCount" validate:"gte=0"`
	IncorrectCount int        `json:"incorrectCount" validate:"gte=0"`
	EaseFactor     float64    `json:"easeFactor" validate:"gte=1.3,lte=2.5"`
	Interval       int        `json:"interval" validate:"gte=1"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	NextReviewAt   *time.Time `json:"nextReviewAt"`
}

// NewCardProgress returns the default progress for a card that was just
// added to a set.
func NewCardProgress(id, cardSetID, cardID string) CardProgress {
	return CardProgress{
		ID:         id,
		CardID:     cardID,
		CardSetID:  cardSetID,
		Status:     StatusNew,
		EaseFactor: InitialEaseFactor,
		Interval:   InitialInterval,
	}
}

// Reviews returns the lifetime number of graded answers.
func (p *CardProgress) Reviews() int {
	return p.CorrectCount + p.IncorrectCount
}

// StudySession is the persisted summary of one study run against one card
// set. A run over several sets is stored as one row per set.
type StudySession struct {
	ID               string     `json:"id" validate:"required"`
	CardSetID        string     `json:"cardSetId" validate:"required"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
	CardsReviewed    int        `json:"cardsReviewed" validate:"gte=0"`
	CorrectAnswers   int        `json:"correctAnswers" validate:"gte=0"`
	IncorrectAnswers int        `json:"incorrectAnswers" validate:"gte=0"`
	SkippedCards     int        `json:"skippedCards" validate:"gte=0"`
	TotalTimeSpent   int64      `json:"totalTimeSpent" validate:"gte=0"`
}

// Completed reports whether the session has been finalized.
func (s *StudySession) Completed() bool {
	return s.CompletedAt != nil
}

// CardDraft is a front/back pair that has not been stored yet.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Hint  string `json:"hint,omitempty"`
}
