package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// TagRepo defines the persistence operations for Tags.
type TagRepo interface {
	// Upsert inserts a tag by id, or overwrites its mutable fields if the id
	// already exists, and returns the stored row.
	Upsert(ctx context.Context, tag domain.Tag) (domain.Tag, error)

	// List returns all tags, hidden ones included, ordered by display order.
	List(ctx context.Context) ([]domain.Tag, error)

	// Delete removes a tag by id.
	// Returns domain.ErrNotFound if no tag with that id exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

func (r *pgTagRepo) Upsert(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (id, name, sort_order, hidden, system)
		VALUES (@id, @name, @sort_order, @hidden, @system)
		ON CONFLICT (id) DO UPDATE
		SET name       = EXCLUDED.name,
		    sort_order = EXCLUDED.sort_order,
		    hidden     = EXCLUDED.hidden,
		    system     = EXCLUDED.system,
		    updated_at = now()
		RETURNING id, name, sort_order, hidden, system`

	args := pgx.NamedArgs{
		"id":         tag.ID,
		"name":       tag.Name,
		"sort_order": tag.Order,
		"hidden":     tag.Hidden,
		"system":     tag.System,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	const q = `
		SELECT id, name, sort_order, hidden, system
		FROM tags
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo.List: scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: rows: %w", err)
	}
	return tags, nil
}

func (r *pgTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM tags WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t  domain.Tag
		id pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.Order, &t.Hidden, &t.System)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
