package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// Snapshot is the full persisted ledger state read at startup.
type Snapshot struct {
	Tags     []domain.Tag
	Segments []domain.Segment
	Settings map[string]string
}

// Store loads the ledger and writes change sets atomically.
type Store struct {
	db txBeginner
}

// NewStore constructs a Store. Pass *pgxpool.Pool in production, or a pgx.Tx
// in tests (Apply then runs in a savepoint).
func NewStore(db txBeginner) *Store {
	return &Store{db: db}
}

// Load reads every tag, segment and setting.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	tags, err := NewTagRepo(s.db).List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("repo.Store.Load: %w", err)
	}
	segs, err := NewSegmentRepo(s.db).List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("repo.Store.Load: %w", err)
	}
	settings, err := NewSettingRepo(s.db).All(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("repo.Store.Load: %w", err)
	}
	return Snapshot{Tags: tags, Segments: segs, Settings: settings}, nil
}

// Segments returns the stored segments matching f.
func (s *Store) Segments(ctx context.Context, f SegmentFilter) ([]domain.Segment, error) {
	return NewSegmentRepo(s.db).ListRange(ctx, f)
}

// Apply writes cs in a single transaction. Tags are written before segments
// so foreign keys hold, and tag deletions run last.
// Deleting a row that was never stored is not an error.
func (s *Store) Apply(ctx context.Context, cs domain.ChangeSet) error {
	if cs.Empty() {
		return nil
	}
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tags, segs, settings := NewTagRepo(tx), NewSegmentRepo(tx), NewSettingRepo(tx)

		for _, t := range cs.Tags {
			if _, err := tags.Upsert(ctx, t); err != nil {
				return err
			}
		}
		for id := range cs.DeletedSegments {
			if err := segs.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		for _, seg := range cs.Segments {
			if _, err := segs.Upsert(ctx, seg); err != nil {
				return err
			}
		}
		for id := range cs.DeletedTags {
			if err := tags.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		for k, v := range cs.Settings {
			if err := settings.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.Store.Apply: %w", err)
	}
	return nil
}
