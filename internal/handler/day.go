package handler

import "net/http"

// ListDaySegments handles GET /days/{day}/segments.
func (s *Server) ListDaySegments(w http.ResponseWriter, r *http.Request) {
	day, err := pathDay(r, "day", s.ledger.Location())
	if err != nil {
		badParam(w, "day", err)
		return
	}
	writeJSON(w, http.StatusOK, segmentsToResponse(s.ledger.SegmentsForDay(day), s.now()))
}

// MergeDay handles POST /days/{day}/merge and returns the day's segments
// after coalescing.
func (s *Server) MergeDay(w http.ResponseWriter, r *http.Request) {
	day, err := pathDay(r, "day", s.ledger.Location())
	if err != nil {
		badParam(w, "day", err)
		return
	}
	writeJSON(w, http.StatusOK, segmentsToResponse(s.ledger.MergeDay(day), s.now()))
}

// GetDayTotals handles GET /days/{day}/totals.
func (s *Server) GetDayTotals(w http.ResponseWriter, r *http.Request) {
	day, err := pathDay(r, "day", s.ledger.Location())
	if err != nil {
		badParam(w, "day", err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.DaySummary(day))
}

// GetWindow handles GET /windows/{day}: the seven days ending on day.
func (s *Server) GetWindow(w http.ResponseWriter, r *http.Request) {
	day, err := pathDay(r, "day", s.ledger.Location())
	if err != nil {
		badParam(w, "day", err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.WindowReport(day))
}
