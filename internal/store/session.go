package store

import (
	"context"
	"database/sql"
	"errors"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/flashdeck/internal/domain"
)

var sessionColumns = []string{
	"id", "card_set_id", "started_at", "completed_at", "cards_reviewed",
	"correct_answers", "incorrect_answers", "skipped_cards", "total_time_spent",
}

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	q querier
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*domain.StudySession, error) {
	query, args := sqlite.Select(sessionColumns...).
		From(sqlite.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()

	s, err := scanSession(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("study session", id)
	}
	return s, err
}

func (r *sessionRepo) ListByCardSet(ctx context.Context, cardSetID string) ([]domain.StudySession, error) {
	selector := sqlite.Select(sessionColumns...).
		From(sqlite.Table(tableSessions)).
		Where(entsql.EQ("card_set_id", cardSetID)).
		OrderBy("started_at", "id")
	return r.list(ctx, "list study sessions", selector)
}

func (r *sessionRepo) ListCompleted(ctx context.Context, cardSetID string, limit int) ([]domain.StudySession, error) {
	selector := sqlite.Select(sessionColumns...).
		From(sqlite.Table(tableSessions)).
		Where(entsql.And(
			entsql.EQ("card_set_id", cardSetID),
			entsql.NotNull("completed_at"),
		)).
		OrderBy(entsql.Desc("completed_at"), "id")
	if limit > 0 {
		selector.Limit(limit)
	}
	return r.list(ctx, "list completed sessions", selector)
}

func (r *sessionRepo) list(ctx context.Context, op string, selector *entsql.Selector) ([]domain.StudySession, error) {
	query, args := selector.Query()
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()

	var out []domain.StudySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return out, nil
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.StudySession) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if err := domain.Validate("study session", s); err != nil {
		return "", err
	}

	query, args := sqlite.Insert(tableSessions).
		Columns(sessionColumns...).
		Values(s.ID, s.CardSetID, formatTime(s.StartedAt), formatNullTime(s.CompletedAt),
			s.CardsReviewed, s.CorrectAnswers, s.IncorrectAnswers, s.SkippedCards, s.TotalTimeSpent).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return "", unavailable("create study session", err)
	}
	return s.ID, nil
}

func (r *sessionRepo) Update(ctx context.Context, id string, patch SessionPatch) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Completed() {
		return ErrSessionCompleted
	}
	if patch.CompletedAt != nil {
		s.CompletedAt = patch.CompletedAt
	}
	if patch.CardsReviewed != nil {
		s.CardsReviewed = *patch.CardsReviewed
	}
	if patch.CorrectAnswers != nil {
		s.CorrectAnswers = *patch.CorrectAnswers
	}
	if patch.IncorrectAnswers != nil {
		s.IncorrectAnswers = *patch.IncorrectAnswers
	}
	if patch.SkippedCards != nil {
		s.SkippedCards = *patch.SkippedCards
	}
	if patch.TotalTimeSpent != nil {
		s.TotalTimeSpent = *patch.TotalTimeSpent
	}
	if err := domain.Validate("study session", s); err != nil {
		return err
	}

	query, args := sqlite.Update(tableSessions).
		Set("completed_at", formatNullTime(s.CompletedAt)).
		Set("cards_reviewed", s.CardsReviewed).
		Set("correct_answers", s.CorrectAnswers).
		Set("incorrect_answers", s.IncorrectAnswers).
		Set("skipped_cards", s.SkippedCards).
		Set("total_time_spent", s.TotalTimeSpent).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("update study session", err)
	}
	return checkAffected(res, "update study session", "study session", id)
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite.Delete(tableSessions).Where(entsql.EQ("id", id)).Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("delete study session", err)
	}
	return checkAffected(res, "delete study session", "study session", id)
}

func (r *sessionRepo) DeleteByCardSet(ctx context.Context, cardSetID string) error {
	query, args := sqlite.Delete(tableSessions).Where(entsql.EQ("card_set_id", cardSetID)).Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return unavailable("delete study sessions", err)
	}
	return nil
}

func scanSession(row rowScanner) (*domain.StudySession, error) {
	var (
		s         domain.StudySession
		startedAt string
		completed sql.NullString
	)
	err := row.Scan(&s.ID, &s.CardSetID, &startedAt, &completed, &s.CardsReviewed,
		&s.CorrectAnswers, &s.IncorrectAnswers, &s.SkippedCards, &s.TotalTimeSpent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("scan study session", err)
	}
	if s.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if s.CompletedAt, err = parseNullTime(completed); err != nil {
		return nil, err
	}
	if err := domain.Validate("study session", s); err != nil {
		return nil, err
	}
	return &s, nil
}
