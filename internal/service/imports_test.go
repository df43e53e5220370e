package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-ledger/internal/clock"
	"github.com/pkordes/activity-ledger/internal/domain"
)

func TestImportLegacy_InsertsAndMarksDone(t *testing.T) {
	store := &mockStore{}
	l := newLedger(t, store, clock.NewFixed(at(12, 0)))
	_, err := l.Launch(context.Background())
	require.NoError(t, err)

	n, err := l.ImportLegacy(strings.NewReader(
		"- tag: Reading\n  start: 2025-06-02T09:00:00Z\n  end: 2025-06-02T10:00:00Z\n  note: chapter 3\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	segs := l.SegmentsForDay(day)
	require.NotEmpty(t, segs)
	assert.Equal(t, "Reading", segs[0].TagName)
	assert.Equal(t, "chapter 3", segs[0].Note)

	require.NoError(t, l.Flush(context.Background()))
	last := store.applied[len(store.applied)-1]
	assert.Equal(t, "true", last.Settings[domain.SettingLegacyImported])
}

func TestImportLegacy_DecodeErrorChangesNothing(t *testing.T) {
	l := newLedger(t, &mockStore{}, clock.NewFixed(at(12, 0)))
	_, err := l.Launch(context.Background())
	require.NoError(t, err)
	before := len(l.SegmentsForDay(day))

	_, err = l.ImportLegacy(strings.NewReader("- tag: Work\n  start: yesterday\n"))

	assert.ErrorContains(t, err, "service.Ledger.ImportLegacy")
	assert.Len(t, l.SegmentsForDay(day), before)
}
