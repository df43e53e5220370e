package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// SegmentFilter narrows ListRange. Zero-valued fields are ignored.
type SegmentFilter struct {
	From   *time.Time // start_at >= From
	To     *time.Time // start_at < To
	TagID  *uuid.UUID
	Limit  int
	Offset int
}

// SegmentRepo defines the persistence operations for Segments.
type SegmentRepo interface {
	// Upsert inserts a segment by id, or overwrites every column if the id
	// already exists, and returns the stored row.
	Upsert(ctx context.Context, seg domain.Segment) (domain.Segment, error)

	// List returns every segment ordered by start_at ascending.
	List(ctx context.Context) ([]domain.Segment, error)

	// ListRange returns the segments matching f ordered by start_at ascending.
	ListRange(ctx context.Context, f SegmentFilter) ([]domain.Segment, error)

	// Delete removes a segment by id.
	// Returns domain.ErrNotFound if no segment with that id exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgSegmentRepo is the Postgres implementation of SegmentRepo.
type pgSegmentRepo struct {
	db db
}

// NewSegmentRepo constructs a SegmentRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSegmentRepo(db db) SegmentRepo {
	return &pgSegmentRepo{db: db}
}

var segmentColumns = []string{"id", "tag_id", "tag_name", "start_at", "end_at", "note"}

func (r *pgSegmentRepo) Upsert(ctx context.Context, seg domain.Segment) (domain.Segment, error) {
	const q = `
		INSERT INTO segments (id, tag_id, tag_name, start_at, end_at, note)
		VALUES (@id, @tag_id, @tag_name, @start_at, @end_at, @note)
		ON CONFLICT (id) DO UPDATE
		SET tag_id     = EXCLUDED.tag_id,
		    tag_name   = EXCLUDED.tag_name,
		    start_at   = EXCLUDED.start_at,
		    end_at     = EXCLUDED.end_at,
		    note       = EXCLUDED.note,
		    updated_at = now()
		RETURNING id, tag_id, tag_name, start_at, end_at, note`

	args := pgx.NamedArgs{
		"id":       seg.ID,
		"tag_id":   seg.TagID,
		"tag_name": seg.TagName,
		"start_at": seg.Start,
		"end_at":   seg.End, // nil becomes NULL
		"note":     seg.Note,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSegment(row)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("repo.SegmentRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgSegmentRepo) List(ctx context.Context) ([]domain.Segment, error) {
	segs, err := r.ListRange(ctx, SegmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("repo.SegmentRepo.List: %w", err)
	}
	return segs, nil
}

func (r *pgSegmentRepo) ListRange(ctx context.Context, f SegmentFilter) ([]domain.Segment, error) {
	q, args, err := RangeQuery(f)
	if err != nil {
		return nil, fmt.Errorf("repo.SegmentRepo.ListRange: build: %w", err)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo.SegmentRepo.ListRange: %w", err)
	}
	defer rows.Close()

	segs := []domain.Segment{}
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SegmentRepo.ListRange: scan: %w", err)
		}
		segs = append(segs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SegmentRepo.ListRange: rows: %w", err)
	}
	return segs, nil
}

func (r *pgSegmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM segments WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.SegmentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SegmentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// RangeQuery builds the SELECT for ListRange with Postgres placeholders.
func RangeQuery(f SegmentFilter) (string, []any, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(segmentColumns...).
		From("segments").
		OrderBy("start_at", "id")

	if f.From != nil {
		b = b.Where(sq.GtOrEq{"start_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"start_at": *f.To})
	}
	if f.TagID != nil {
		b = b.Where(sq.Eq{"tag_id": *f.TagID})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	return b.ToSql()
}

// scanSegment maps a single database row into a domain.Segment.
// It handles the UUID and nullable end_at conversions.
func scanSegment(s scanner) (domain.Segment, error) {
	var (
		seg   domain.Segment
		id    pgtype.UUID
		tagID pgtype.UUID
		end   pgtype.Timestamptz
	)
	err := s.Scan(&id, &tagID, &seg.TagName, &seg.Start, &end, &seg.Note)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Segment{}, domain.ErrNotFound
		}
		return domain.Segment{}, err
	}
	seg.ID = uuid.UUID(id.Bytes)
	seg.TagID = uuid.UUID(tagID.Bytes)
	if end.Valid {
		seg.End = domain.TimePtr(end.Time)
	}
	return seg, nil
}
