package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/flashdeck/internal/domain"
)

var flashcardColumns = []string{
	"id", "card_set_id", "position", "front", "back", "hint", "details", "created_at",
}

// flashcardRepo implements FlashcardRepo.
type flashcardRepo struct {
	q   querier
	now func() time.Time
}

func (r *flashcardRepo) Get(ctx context.Context, id string) (*domain.Flashcard, error) {
	query, args := sqlite.Select(flashcardColumns...).
		From(sqlite.Table(tableFlashcards)).
		Where(entsql.EQ("id", id)).
		Query()

	card, err := scanFlashcard(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("flashcard", id)
	}
	return card, err
}

func (r *flashcardRepo) ListByCardSet(ctx context.Context, cardSetID string) ([]domain.Flashcard, error) {
	query, args := sqlite.Select(flashcardColumns...).
		From(sqlite.Table(tableFlashcards)).
		Where(entsql.EQ("card_set_id", cardSetID)).
		OrderBy("position", "id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list flashcards", err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list flashcards", err)
	}
	return cards, nil
}

func (r *flashcardRepo) Create(ctx context.Context, card *domain.Flashcard) (string, error) {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = r.now().UTC()
	}
	if err := domain.Validate("flashcard", card); err != nil {
		return "", err
	}

	query, args := sqlite.Insert(tableFlashcards).
		Columns(flashcardColumns...).
		Values(card.ID, card.CardSetID, card.Position, card.Front, card.Back,
			card.Hint, card.Details, formatTime(card.CreatedAt)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return "", unavailable("create flashcard", err)
	}
	return card.ID, nil
}

func (r *flashcardRepo) Update(ctx context.Context, id string, patch FlashcardPatch) error {
	card, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if patch.Front != nil {
		card.Front = *patch.Front
	}
	if patch.Back != nil {
		card.Back = *patch.Back
	}
	if patch.Hint != nil {
		card.Hint = *patch.Hint
	}
	if patch.Details != nil {
		card.Details = *patch.Details
	}
	if err := domain.Validate("flashcard", card); err != nil {
		return err
	}

	query, args := sqlite.Update(tableFlashcards).
		Set("front", card.Front).
		Set("back", card.Back).
		Set("hint", card.Hint).
		Set("details", card.Details).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("update flashcard", err)
	}
	return checkAffected(res, "update flashcard", "flashcard", id)
}

func (r *flashcardRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite.Delete(tableFlashcards).Where(entsql.EQ("id", id)).Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("delete flashcard", err)
	}
	return checkAffected(res, "delete flashcard", "flashcard", id)
}

func (r *flashcardRepo) DeleteByCardSet(ctx context.Context, cardSetID string) error {
	query, args := sqlite.Delete(tableFlashcards).Where(entsql.EQ("card_set_id", cardSetID)).Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return unavailable("delete flashcards", err)
	}
	return nil
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		card      domain.Flashcard
		createdAt string
	)
	err := row.Scan(&card.ID, &card.CardSetID, &card.Position, &card.Front, &card.Back,
		&card.Hint, &card.Details, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("scan flashcard", err)
	}
	if card.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if err := domain.Validate("flashcard", card); err != nil {
		return nil, err
	}
	return &card, nil
}
