// Package handler implements the HTTP handlers for the activity ledger API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, tag.go, segment.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
	"github.com/pkordes/activity-ledger/internal/service"
)

// LedgerServicer defines the ledger operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type LedgerServicer interface {
	Location() *time.Location
	Today() time.Time

	Tags(includeHidden bool) []domain.Tag
	CreateTag(name string) (domain.Tag, error)
	UpdateTag(id uuid.UUID, name *string, hidden *bool) (domain.Tag, error)
	DeleteTag(id uuid.UUID) error

	Switch(tagID uuid.UUID) (service.SwitchResult, error)
	Undo() (domain.Segment, error)
	Active() (domain.Segment, bool)

	Segment(id uuid.UUID) (domain.Segment, error)
	SegmentsForDay(day time.Time) []domain.Segment
	History(p domain.PaginationParams) domain.Page[domain.Segment]
	ValidateEdit(edit domain.SegmentEdit) error
	UpdateSegment(edit domain.SegmentEdit) (domain.Segment, error)
	DeleteSegment(id uuid.UUID) error
	SplitSegment(id uuid.UUID, at time.Time, beforeTagID, afterTagID uuid.UUID) ([2]domain.Segment, error)
	MergeDay(day time.Time) []domain.Segment

	DaySummary(day time.Time) domain.DaySummary
	WindowReport(anchor time.Time) domain.WindowReport
	Export(from, to time.Time) []domain.ExportRow
}

// Compile-time check: the service must satisfy the handler's contract.
var _ LedgerServicer = (*service.Ledger)(nil)

// Server serves every API endpoint.
// Mount the result of Routes in main.go.
type Server struct {
	ledger LedgerServicer
	now    func() time.Time
}

// NewServer constructs the Server with all its dependencies.
// now reports the instant used to measure running segments in responses.
func NewServer(ledger LedgerServicer, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{ledger: ledger, now: now}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Routes returns a chi router with every endpoint registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", s.ListTags)
		r.Post("/", s.CreateTag)
		r.Patch("/{tagId}", s.UpdateTag)
		r.Delete("/{tagId}", s.DeleteTag)
	})

	r.Post("/switch", s.Switch)
	r.Post("/undo", s.Undo)
	r.Get("/active", s.GetActive)

	r.Route("/segments", func(r chi.Router) {
		r.Get("/", s.ListSegments)
		r.Post("/validate", s.ValidateSegment)
		r.Get("/{segmentId}", s.GetSegment)
		r.Put("/{segmentId}", s.UpdateSegment)
		r.Delete("/{segmentId}", s.DeleteSegment)
		r.Post("/{segmentId}/split", s.SplitSegment)
	})

	r.Route("/days/{day}", func(r chi.Router) {
		r.Get("/segments", s.ListDaySegments)
		r.Post("/merge", s.MergeDay)
		r.Get("/totals", s.GetDayTotals)
	})
	r.Get("/windows/{day}", s.GetWindow)

	r.Get("/export", s.GetExport)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	return r
}
