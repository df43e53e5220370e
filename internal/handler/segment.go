package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// SegmentResponse is the JSON form of a segment. Running segments are
// measured up to the response instant.
type SegmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	TagID           uuid.UUID  `json:"tag_id"`
	TagName         string     `json:"tag_name"`
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	Note            string     `json:"note,omitempty"`
	Active          bool       `json:"active"`
	DurationSeconds int64      `json:"duration_seconds"`
}

// SwitchRequest is the body of POST /switch.
type SwitchRequest struct {
	TagID uuid.UUID `json:"tag_id"`
}

// SwitchResponse is the body returned by POST /switch.
type SwitchResponse struct {
	Active  SegmentResponse `json:"active"`
	CanUndo bool            `json:"can_undo"`
}

// SegmentEditRequest is the body of PUT /segments/{segmentId} and, with ID
// set, of POST /segments/validate. A missing end makes the segment active.
type SegmentEditRequest struct {
	ID    uuid.UUID  `json:"id,omitempty"`
	TagID uuid.UUID  `json:"tag_id"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
	Note  string     `json:"note"`
}

// SplitRequest is the body of POST /segments/{segmentId}/split.
type SplitRequest struct {
	At          time.Time `json:"at"`
	BeforeTagID uuid.UUID `json:"before_tag_id"`
	AfterTagID  uuid.UUID `json:"after_tag_id"`
}

// ValidationResult is the body returned by POST /segments/validate.
type ValidationResult struct {
	Valid bool         `json:"valid"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// SegmentPage is the body returned by GET /segments.
type SegmentPage struct {
	Data       []SegmentResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// Switch handles POST /switch.
func (s *Server) Switch(w http.ResponseWriter, r *http.Request) {
	var body SwitchRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	res, err := s.ledger.Switch(body.TagID)
	if err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, SwitchResponse{
		Active:  segmentToResponse(res.Active, s.now()),
		CanUndo: res.CanUndo,
	})
}

// Undo handles POST /undo. It returns the restored segment, or 409 when
// there is no switch left to undo.
func (s *Server) Undo(w http.ResponseWriter, _ *http.Request) {
	restored, err := s.ledger.Undo()
	if err != nil {
		writeServiceError(w, err, "segment not found")
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(restored, s.now()))
}

// GetActive handles GET /active.
func (s *Server) GetActive(w http.ResponseWriter, _ *http.Request) {
	active, ok := s.ledger.Active()
	if !ok {
		writeJSON(w, http.StatusNotFound, notFoundBody("no active segment"))
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(active, s.now()))
}

// ListSegments handles GET /segments, newest first.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListSegments(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		badParam(w, "page", err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		badParam(w, "limit", err)
		return
	}

	params := domain.NewPaginationParams(page, limit)
	result := s.ledger.History(params)
	writeJSON(w, http.StatusOK, SegmentPage{
		Data: segmentsToResponse(result.Items, s.now()),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: result.Total,
		},
	})
}

// GetSegment handles GET /segments/{segmentId}.
func (s *Server) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "segmentId")
	if err != nil {
		badParam(w, "segmentId", err)
		return
	}
	seg, err := s.ledger.Segment(id)
	if err != nil {
		writeServiceError(w, err, "segment not found")
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(seg, s.now()))
}

// UpdateSegment handles PUT /segments/{segmentId}.
func (s *Server) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "segmentId")
	if err != nil {
		badParam(w, "segmentId", err)
		return
	}
	var body SegmentEditRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	body.ID = id

	updated, err := s.ledger.UpdateSegment(requestToEdit(body))
	if err != nil {
		writeServiceError(w, err, "segment or tag not found")
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(updated, s.now()))
}

// ValidateSegment handles POST /segments/validate. It always answers 200
// for a well-formed body; the verdict is in the response.
func (s *Server) ValidateSegment(w http.ResponseWriter, r *http.Request) {
	var body SegmentEditRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	if err := s.ledger.ValidateEdit(requestToEdit(body)); err != nil {
		status, detail := classify(err, "segment or tag not found")
		if status == http.StatusInternalServerError {
			writeServiceError(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, ValidationResult{Valid: false, Error: &detail})
		return
	}
	writeJSON(w, http.StatusOK, ValidationResult{Valid: true})
}

// DeleteSegment handles DELETE /segments/{segmentId}.
func (s *Server) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "segmentId")
	if err != nil {
		badParam(w, "segmentId", err)
		return
	}
	if err := s.ledger.DeleteSegment(id); err != nil {
		writeServiceError(w, err, "segment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SplitSegment handles POST /segments/{segmentId}/split.
func (s *Server) SplitSegment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "segmentId")
	if err != nil {
		badParam(w, "segmentId", err)
		return
	}
	var body SplitRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	halves, err := s.ledger.SplitSegment(id, body.At, body.BeforeTagID, body.AfterTagID)
	if err != nil {
		writeServiceError(w, err, "segment or tag not found")
		return
	}
	writeJSON(w, http.StatusOK, segmentsToResponse(halves[:], s.now()))
}

// --- mapping helpers --------------------------------------------------------

func requestToEdit(body SegmentEditRequest) domain.SegmentEdit {
	return domain.SegmentEdit{
		ID:    body.ID,
		TagID: body.TagID,
		Start: body.Start,
		End:   body.End,
		Note:  body.Note,
	}
}

func segmentToResponse(seg domain.Segment, now time.Time) SegmentResponse {
	return SegmentResponse{
		ID:              seg.ID,
		TagID:           seg.TagID,
		TagName:         seg.TagName,
		Start:           seg.Start,
		End:             seg.End,
		Note:            seg.Note,
		Active:          seg.Active(),
		DurationSeconds: int64(seg.Duration(now) / time.Second),
	}
}

func segmentsToResponse(segs []domain.Segment, now time.Time) []SegmentResponse {
	out := make([]SegmentResponse, len(segs))
	for i, seg := range segs {
		out[i] = segmentToResponse(seg, now)
	}
	return out
}
