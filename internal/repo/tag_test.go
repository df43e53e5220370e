package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/repo"
	"github.com/pkordes/activity-ledger/testutil"
)

// newTestTx opens a transaction that is rolled back when the test finishes,
// so every test sees an empty schema and leaves nothing behind.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

func mustUpsertTag(t *testing.T, r repo.TagRepo, name string, order int) domain.Tag {
	t.Helper()
	tag, err := r.Upsert(context.Background(), domain.Tag{ID: uuid.New(), Name: name, Order: order})
	require.NoError(t, err)
	return tag
}

// ---- Upsert ----------------------------------------------------------------

func TestTagRepo_Upsert_Create(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))
	ctx := context.Background()
	in := domain.Tag{ID: uuid.New(), Name: "Idle", Order: 0, System: true}

	got, err := tagRepo.Upsert(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestTagRepo_Upsert_OverwritesByID(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))
	ctx := context.Background()
	first := mustUpsertTag(t, tagRepo, "Work", 1)

	first.Name = "Deep work"
	first.Hidden = true
	second, err := tagRepo.Upsert(ctx, first)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	all, err := tagRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "same id must update, not insert")
}

func TestTagRepo_Upsert_RejectsSecondSystemTag(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))
	ctx := context.Background()

	_, err := tagRepo.Upsert(ctx, domain.Tag{ID: uuid.New(), Name: "Idle", System: true})
	require.NoError(t, err)
	_, err = tagRepo.Upsert(ctx, domain.Tag{ID: uuid.New(), Name: "Idle 2", System: true})

	assert.Error(t, err)
}

// ---- List ------------------------------------------------------------------

func TestTagRepo_List_OrderedBySortOrder(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))
	mustUpsertTag(t, tagRepo, "Food", 3)
	mustUpsertTag(t, tagRepo, "Work", 1)
	mustUpsertTag(t, tagRepo, "Study", 2)

	got, err := tagRepo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Work", got[0].Name)
	assert.Equal(t, "Study", got[1].Name)
	assert.Equal(t, "Food", got[2].Name)
}

func TestTagRepo_List_EmptyIsNotNil(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))

	got, err := tagRepo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Delete ----------------------------------------------------------------

func TestTagRepo_Delete(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))
	ctx := context.Background()
	tag := mustUpsertTag(t, tagRepo, "Chores", 1)

	require.NoError(t, tagRepo.Delete(ctx, tag.ID))

	got, err := tagRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTagRepo_Delete_NotFound(t *testing.T) {
	tagRepo := repo.NewTagRepo(newTestTx(t))

	err := tagRepo.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
