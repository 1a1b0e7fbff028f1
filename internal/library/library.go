package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/store"
)

// ErrNoCards is returned when a set would be created or extended without
// any usable card.
var ErrNoCards = errors.New("no cards")

// SetMeta describes a new card set.
type SetMeta struct {
	Name        string
	Description string
	Theme       domain.Theme
	Tags        []string
	SourceType  domain.SourceType
	SourceValue string
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Theme domain.Theme
	Tags  []string // every tag must be present
	Query string   // case-insensitive match on name or description
}

// SetWithCards is a card set together with its cards in position order.
type SetWithCards struct {
	domain.CardSet
	Cards []domain.Flashcard `json:"cards"`
}

// Library manages the lifecycle of card sets and their cards.
type Library struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Library. A nil logger discards logs.
func New(s *store.Store, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Library{store: s, logger: logger, now: time.Now}
}

// CreateSet stores a new set with its cards and a default progress record
// per card, all in one transaction.
func (l *Library) CreateSet(ctx context.Context, meta SetMeta, drafts []domain.CardDraft) (*SetWithCards, error) {
	drafts = cleanDrafts(drafts)
	if len(drafts) == 0 {
		return nil, ErrNoCards
	}

	now := l.now().UTC()
	cs := domain.CardSet{
		Name:        strings.TrimSpace(meta.Name),
		Description: strings.TrimSpace(meta.Description),
		Theme:       meta.Theme,
		Tags:        normalizeTags(meta.Tags),
		SourceType:  meta.SourceType,
		SourceValue: meta.SourceValue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cs.Theme == "" {
		cs.Theme = domain.ThemeDefault
	}
	if cs.SourceType == "" {
		cs.SourceType = domain.SourceText
	}

	var cards []domain.Flashcard
	err := l.store.WithTx(ctx, func(r store.Repos) error {
		if _, err := r.CardSets.Create(ctx, &cs); err != nil {
			return fmt.Errorf("create card set: %w", err)
		}
		var err error
		cards, err = insertCards(ctx, r, cs.ID, 0, drafts, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("card set created", "card_set_id", cs.ID, "name", cs.Name, "cards", len(cards))
	return &SetWithCards{CardSet: cs, Cards: cards}, nil
}

// AddCards appends cards to an existing set. Progress is created for the
// new cards only; existing progress is untouched.
func (l *Library) AddCards(ctx context.Context, cardSetID string, drafts []domain.CardDraft) ([]domain.Flashcard, error) {
	drafts = cleanDrafts(drafts)
	if len(drafts) == 0 {
		return nil, ErrNoCards
	}

	now := l.now().UTC()
	var cards []domain.Flashcard
	err := l.store.WithTx(ctx, func(r store.Repos) error {
		if _, err := r.CardSets.Get(ctx, cardSetID); err != nil {
			return err
		}
		existing, err := r.Flashcards.ListByCardSet(ctx, cardSetID)
		if err != nil {
			return err
		}
		next := 0
		for _, c := range existing {
			if c.Position >= next {
				next = c.Position + 1
			}
		}
		cards, err = insertCards(ctx, r, cardSetID, next, drafts, now)
		if err != nil {
			return err
		}
		return r.CardSets.Update(ctx, cardSetID, store.CardSetPatch{})
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("cards added", "card_set_id", cardSetID, "cards", len(cards))
	return cards, nil
}

func insertCards(ctx context.Context, r store.Repos, cardSetID string, start int, drafts []domain.CardDraft, now time.Time) ([]domain.Flashcard, error) {
	cards := make([]domain.Flashcard, 0, len(drafts))
	for i, d := range drafts {
		card := domain.Flashcard{
			CardSetID: cardSetID,
			Position:  start + i,
			Front:     d.Front,
			Back:      d.Back,
			Hint:      d.Hint,
			CreatedAt: now,
		}
		if _, err := r.Flashcards.Create(ctx, &card); err != nil {
			return nil, fmt.Errorf("create card %d: %w", start+i, err)
		}
		p := domain.NewCardProgress("", cardSetID, card.ID)
		if _, err := r.Progress.Create(ctx, &p); err != nil {
			return nil, fmt.Errorf("create progress for card %d: %w", start+i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// UpdateSet changes set metadata and returns the updated set.
func (l *Library) UpdateSet(ctx context.Context, id string, patch store.CardSetPatch) (*domain.CardSet, error) {
	if patch.Tags != nil {
		patch.Tags = normalizeTags(patch.Tags)
	}
	if err := l.store.CardSetRepo().Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return l.store.CardSetRepo().Get(ctx, id)
}

// DeleteSet removes a set with its cards, progress and sessions.
func (l *Library) DeleteSet(ctx context.Context, id string) error {
	if err := l.store.DeleteCardSet(ctx, id); err != nil {
		return err
	}
	l.logger.Info("card set deleted", "card_set_id", id)
	return nil
}

// Get returns a set with its cards.
func (l *Library) Get(ctx context.Context, id string) (*SetWithCards, error) {
	cs, err := l.store.CardSetRepo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cards, err := l.store.FlashcardRepo().ListByCardSet(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SetWithCards{CardSet: *cs, Cards: cards}, nil
}

// List returns the sets matching f, most recently updated first.
func (l *Library) List(ctx context.Context, f Filter) ([]domain.CardSet, error) {
	sets, err := l.store.CardSetRepo().List(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	tags := normalizeTags(f.Tags)
	var out []domain.CardSet
	for _, cs := range sets {
		if f.Theme != "" && cs.Theme != f.Theme {
			continue
		}
		if !cs.HasTags(tags) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(cs.Name), query) &&
			!strings.Contains(strings.ToLower(cs.Description), query) {
			continue
		}
		out = append(out, cs)
	}
	return out, nil
}

// cleanDrafts trims whitespace and drops drafts missing a side.
func cleanDrafts(drafts []domain.CardDraft) []domain.CardDraft {
	out := make([]domain.CardDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Front = strings.TrimSpace(d.Front)
		d.Back = strings.TrimSpace(d.Back)
		d.Hint = strings.TrimSpace(d.Hint)
		if d.Front == "" || d.Back == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
