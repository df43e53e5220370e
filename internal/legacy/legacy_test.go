package legacy_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/ledger"
	"github.com/pkordes/activity-ledger/internal/legacy"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const sample = `
- id: 3f1c2a4e-6b7d-4c8e-9f10-112233445566
  tag: Work
  start: 2025-06-02T09:00:00Z
  end: 2025-06-02T10:00:00Z
  note: standup
- tagName: reading
  start: 2025-06-02T10:00:00Z
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ---- Decode ------------------------------------------------------------------

func TestDecode_YAML(t *testing.T) {
	got, err := legacy.Decode(strings.NewReader(sample))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3f1c2a4e-6b7d-4c8e-9f10-112233445566", got[0].ID)
	assert.Equal(t, "Work", got[0].TagName)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), got[0].Start.UTC())
	require.NotNil(t, got[0].End)
	assert.Equal(t, "standup", got[0].Note)
	assert.Equal(t, "reading", got[1].TagName)
	assert.Nil(t, got[1].End)
}

func TestDecode_JSON(t *testing.T) {
	in := `[{"id":"x","tagName":"Food","start":"2025-06-02T12:00:00+02:00","end":"2025-06-02T12:30:00+02:00"}]`

	got, err := legacy.Decode(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30*time.Minute, got[0].End.Sub(got[0].Start))
}

func TestDecode_Empty(t *testing.T) {
	got, err := legacy.Decode(strings.NewReader("  \n"))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecode_BadTimestamp(t *testing.T) {
	_, err := legacy.Decode(strings.NewReader("- tag: Work\n  start: yesterday\n"))

	assert.Error(t, err)
}

// ---- ImportOnce ----------------------------------------------------------------

func newEngine() *ledger.Engine {
	e := ledger.New(time.UTC, ledger.WithLogger(discard))
	e.Load(nil, nil, nil)
	return e
}

func TestImportOnce_ImportsAndSetsMarker(t *testing.T) {
	e := newEngine()
	path := writeFile(t, sample)

	n := legacy.ImportOnce(path, e, discard)

	assert.Equal(t, 2, n)
	assert.Equal(t, "true", e.Setting(domain.SettingLegacyImported))
	reading := e.TagForName("Reading")
	assert.Equal(t, "reading", reading.Name, "unknown names create a tag")

	assert.Zero(t, legacy.ImportOnce(path, e, discard), "second run is gated by the marker")
	assert.Len(t, e.Segments(), 2)
}

func TestImportOnce_DecodeFailureStillSetsMarker(t *testing.T) {
	e := newEngine()
	path := writeFile(t, "not: [valid")

	assert.Zero(t, legacy.ImportOnce(path, e, discard))

	assert.Equal(t, "true", e.Setting(domain.SettingLegacyImported))
	assert.Empty(t, e.Segments())
}

func TestImportOnce_NoPathIsNoop(t *testing.T) {
	e := newEngine()
	v := e.Version()

	assert.Zero(t, legacy.ImportOnce("", e, discard))
	assert.Equal(t, v, e.Version())
}
