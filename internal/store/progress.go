package store

import (
	"context"
	"database/sql"
	"errors"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/flashdeck/internal/domain"
)

var progressColumns = []string{
	"id", "card_id", "card_set_id", "status", "correct_count", "incorrect_count",
	"ease_factor", "interval_days", "last_reviewed_at", "next_review_at",
}

// progressRepo implements ProgressRepo.
type progressRepo struct {
	q querier
}

func (r *progressRepo) Get(ctx context.Context, id string) (*domain.CardProgress, error) {
	query, args := sqlite.Select(progressColumns...).
		From(sqlite.Table(tableProgress)).
		Where(entsql.EQ("id", id)).
		Query()

	p, err := scanProgress(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card progress", id)
	}
	return p, err
}

func (r *progressRepo) GetByCard(ctx context.Context, cardSetID, cardID string) (*domain.CardProgress, error) {
	query, args := sqlite.Select(progressColumns...).
		From(sqlite.Table(tableProgress)).
		Where(entsql.And(
			entsql.EQ("card_set_id", cardSetID),
			entsql.EQ("card_id", cardID),
		)).
		Query()

	p, err := scanProgress(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card progress for card", cardID)
	}
	return p, err
}

func (r *progressRepo) ListByCardSet(ctx context.Context, cardSetID string) ([]domain.CardProgress, error) {
	query, args := sqlite.Select(progressColumns...).
		From(sqlite.Table(tableProgress)).
		Where(entsql.EQ("card_set_id", cardSetID)).
		OrderBy("card_id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list card progress", err)
	}
	defer rows.Close()

	var out []domain.CardProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list card progress", err)
	}
	return out, nil
}

func (r *progressRepo) Create(ctx context.Context, p *domain.CardProgress) (string, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := domain.Validate("card progress", p); err != nil {
		return "", err
	}

	query, args := sqlite.Insert(tableProgress).
		Columns(progressColumns...).
		Values(p.ID, p.CardID, p.CardSetID, string(p.Status), p.CorrectCount, p.IncorrectCount,
			p.EaseFactor, p.Interval, formatNullTime(p.LastReviewedAt), formatNullTime(p.NextReviewAt)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return "", unavailable("create card progress", err)
	}
	return p.ID, nil
}

// Update merges patch into the stored record, validates the result and
// writes it in a single statement.
func (r *progressRepo) Update(ctx context.Context, id string, patch ProgressPatch) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.CorrectCount != nil {
		p.CorrectCount = *patch.CorrectCount
	}
	if patch.IncorrectCount != nil {
		p.IncorrectCount = *patch.IncorrectCount
	}
	if patch.EaseFactor != nil {
		p.EaseFactor = *patch.EaseFactor
	}
	if patch.Interval != nil {
		p.Interval = *patch.Interval
	}
	if patch.LastReviewedAt != nil {
		p.LastReviewedAt = patch.LastReviewedAt
	}
	if patch.NextReviewAt != nil {
		p.NextReviewAt = patch.NextReviewAt
	}
	if err := domain.Validate("card progress", p); err != nil {
		return err
	}

	query, args := sqlite.Update(tableProgress).
		Set("status", string(p.Status)).
		Set("correct_count", p.CorrectCount).
		Set("incorrect_count", p.IncorrectCount).
		Set("ease_factor", p.EaseFactor).
		Set("interval_days", p.Interval).
		Set("last_reviewed_at", formatNullTime(p.LastReviewedAt)).
		Set("next_review_at", formatNullTime(p.NextReviewAt)).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("update card progress", err)
	}
	return checkAffected(res, "update card progress", "card progress", id)
}

func (r *progressRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite.Delete(tableProgress).Where(entsql.EQ("id", id)).Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("delete card progress", err)
	}
	return checkAffected(res, "delete card progress", "card progress", id)
}

func (r *progressRepo) DeleteByCardSet(ctx context.Context, cardSetID string) error {
	query, args := sqlite.Delete(tableProgress).Where(entsql.EQ("card_set_id", cardSetID)).Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return unavailable("delete card progress", err)
	}
	return nil
}

func scanProgress(row rowScanner) (*domain.CardProgress, error) {
	var (
		p                domain.CardProgress
		status           string
		lastRev, nextRev sql.NullString
	)
	err := row.Scan(&p.ID, &p.CardID, &p.CardSetID, &status, &p.CorrectCount, &p.IncorrectCount,
		&p.EaseFactor, &p.Interval, &lastRev, &nextRev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("scan card progress", err)
	}
	p.Status = domain.Status(status)
	if p.LastReviewedAt, err = parseNullTime(lastRev); err != nil {
		return nil, err
	}
	if p.NextReviewAt, err = parseNullTime(nextRev); err != nil {
		return nil, err
	}
	if err := domain.Validate("card progress", p); err != nil {
		return nil, err
	}
	return &p, nil
}
