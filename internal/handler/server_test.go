package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/handler"
	"github.com/pkordes/activity-ledger/internal/service"
)

// mockLedger is a test double for handler.LedgerServicer.
// Set only the method fields your test needs.
type mockLedger struct {
	tags           func(includeHidden bool) []domain.Tag
	createTag      func(name string) (domain.Tag, error)
	updateTag      func(id uuid.UUID, name *string, hidden *bool) (domain.Tag, error)
	deleteTag      func(id uuid.UUID) error
	switchTag      func(tagID uuid.UUID) (service.SwitchResult, error)
	undo           func() (domain.Segment, error)
	active         func() (domain.Segment, bool)
	segment        func(id uuid.UUID) (domain.Segment, error)
	segmentsForDay func(day time.Time) []domain.Segment
	history        func(p domain.PaginationParams) domain.Page[domain.Segment]
	validateEdit   func(edit domain.SegmentEdit) error
	updateSegment  func(edit domain.SegmentEdit) (domain.Segment, error)
	deleteSegment  func(id uuid.UUID) error
	splitSegment   func(id uuid.UUID, at time.Time, before, after uuid.UUID) ([2]domain.Segment, error)
	mergeDay       func(day time.Time) []domain.Segment
	daySummary     func(day time.Time) domain.DaySummary
	windowReport   func(anchor time.Time) domain.WindowReport
	export         func(from, to time.Time) []domain.ExportRow
}

func (m *mockLedger) Location() *time.Location { return time.UTC }
func (m *mockLedger) Today() time.Time         { return day }
func (m *mockLedger) Tags(includeHidden bool) []domain.Tag {
	return m.tags(includeHidden)
}
func (m *mockLedger) CreateTag(name string) (domain.Tag, error) { return m.createTag(name) }
func (m *mockLedger) UpdateTag(id uuid.UUID, name *string, hidden *bool) (domain.Tag, error) {
	return m.updateTag(id, name, hidden)
}
func (m *mockLedger) DeleteTag(id uuid.UUID) error { return m.deleteTag(id) }
func (m *mockLedger) Switch(tagID uuid.UUID) (service.SwitchResult, error) {
	return m.switchTag(tagID)
}
func (m *mockLedger) Undo() (domain.Segment, error)  { return m.undo() }
func (m *mockLedger) Active() (domain.Segment, bool) { return m.active() }
func (m *mockLedger) Segment(id uuid.UUID) (domain.Segment, error) {
	return m.segment(id)
}
func (m *mockLedger) SegmentsForDay(d time.Time) []domain.Segment { return m.segmentsForDay(d) }
func (m *mockLedger) History(p domain.PaginationParams) domain.Page[domain.Segment] {
	return m.history(p)
}
func (m *mockLedger) ValidateEdit(edit domain.SegmentEdit) error { return m.validateEdit(edit) }
func (m *mockLedger) UpdateSegment(edit domain.SegmentEdit) (domain.Segment, error) {
	return m.updateSegment(edit)
}
func (m *mockLedger) DeleteSegment(id uuid.UUID) error { return m.deleteSegment(id) }
func (m *mockLedger) SplitSegment(id uuid.UUID, at time.Time, before, after uuid.UUID) ([2]domain.Segment, error) {
	return m.splitSegment(id, at, before, after)
}
func (m *mockLedger) MergeDay(d time.Time) []domain.Segment { return m.mergeDay(d) }
func (m *mockLedger) DaySummary(d time.Time) domain.DaySummary {
	return m.daySummary(d)
}
func (m *mockLedger) WindowReport(anchor time.Time) domain.WindowReport {
	return m.windowReport(anchor)
}
func (m *mockLedger) Export(from, to time.Time) []domain.ExportRow { return m.export(from, to) }

// compile-time check: mockLedger must satisfy handler.LedgerServicer.
var _ handler.LedgerServicer = (*mockLedger)(nil)

// ---- helpers ---------------------------------------------------------------

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// newHTTPHandler wires a Server with the given mock into the chi router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(svc handler.LedgerServicer) http.Handler {
	return handler.NewServer(svc, func() time.Time { return day.Add(12 * time.Hour) }).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func segmentFixture(tag string, start time.Time, end *time.Time) domain.Segment {
	return domain.Segment{ID: uuid.New(), TagID: uuid.New(), TagName: tag, Start: start, End: end}
}
