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

var cardSetColumns = []string{
	"id", "name", "description", "theme", "tags",
	"source_type", "source_value", "created_at", "updated_at",
}

// cardSetRepo implements CardSetRepo.
type cardSetRepo struct {
	q   querier
	now func() time.Time
}

func (r *cardSetRepo) Get(ctx context.Context, id string) (*domain.CardSet, error) {
	query, args := sqlite.Select(cardSetColumns...).
		From(sqlite.Table(tableCardSets)).
		Where(entsql.EQ("id", id)).
		Query()

	cs, err := scanCardSet(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card set", id)
	}
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *cardSetRepo) List(ctx context.Context) ([]domain.CardSet, error) {
	query, args := sqlite.Select(cardSetColumns...).
		From(sqlite.Table(tableCardSets)).
		OrderBy(entsql.Desc("updated_at"), "id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list card sets", err)
	}
	defer rows.Close()

	var sets []domain.CardSet
	for rows.Next() {
		cs, err := scanCardSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, *cs)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list card sets", err)
	}
	return sets, nil
}

func (r *cardSetRepo) Create(ctx context.Context, cs *domain.CardSet) (string, error) {
	if cs.ID == "" {
		cs.ID = uuid.New().String()
	}
	now := r.now().UTC()
	if cs.CreatedAt.IsZero() {
		cs.CreatedAt = now
	}
	if cs.UpdatedAt.IsZero() {
		cs.UpdatedAt = cs.CreatedAt
	}
	if cs.Theme == "" {
		cs.Theme = domain.ThemeDefault
	}
	if err := domain.Validate("card set", cs); err != nil {
		return "", err
	}
	tags, err := encodeTags(cs.Tags)
	if err != nil {
		return "", err
	}

	query, args := sqlite.Insert(tableCardSets).
		Columns(cardSetColumns...).
		Values(cs.ID, cs.Name, cs.Description, string(cs.Theme), tags,
			string(cs.SourceType), cs.SourceValue, formatTime(cs.CreatedAt), formatTime(cs.UpdatedAt)).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return "", unavailable("create card set", err)
	}
	return cs.ID, nil
}

func (r *cardSetRepo) Update(ctx context.Context, id string, patch CardSetPatch) error {
	// Validate the merged record before writing.
	cs, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if patch.Name != nil {
		cs.Name = *patch.Name
	}
	if patch.Description != nil {
		cs.Description = *patch.Description
	}
	if patch.Theme != nil {
		cs.Theme = *patch.Theme
	}
	if patch.Tags != nil {
		cs.Tags = patch.Tags
	}
	cs.UpdatedAt = r.now().UTC()
	if err := domain.Validate("card set", cs); err != nil {
		return err
	}
	tags, err := encodeTags(cs.Tags)
	if err != nil {
		return err
	}

	query, args := sqlite.Update(tableCardSets).
		Set("name", cs.Name).
		Set("description", cs.Description).
		Set("theme", string(cs.Theme)).
		Set("tags", tags).
		Set("updated_at", formatTime(cs.UpdatedAt)).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("update card set", err)
	}
	return checkAffected(res, "update card set", "card set", id)
}

func (r *cardSetRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite.Delete(tableCardSets).Where(entsql.EQ("id", id)).Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("delete card set", err)
	}
	return checkAffected(res, "delete card set", "card set", id)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCardSet(row rowScanner) (*domain.CardSet, error) {
	var (
		cs                 domain.CardSet
		theme, sourceType  string
		tags               string
		createdAt, updated string
	)
	err := row.Scan(&cs.ID, &cs.Name, &cs.Description, &theme, &tags,
		&sourceType, &cs.SourceValue, &createdAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("scan card set", err)
	}
	cs.Theme = domain.Theme(theme)
	cs.SourceType = domain.SourceType(sourceType)
	if cs.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if cs.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if cs.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if err := domain.Validate("card set", cs); err != nil {
		return nil, err
	}
	return &cs, nil
}
