package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"day", "segment_id", "tag", "start", "end", "seconds", "note",
}

// ExportRow is the JSON form of one exported segment.
type ExportRow struct {
	Day       string     `json:"day"`
	SegmentID string     `json:"segment_id"`
	Tag       string     `json:"tag"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end,omitempty"`
	Seconds   int64      `json:"seconds"`
	Note      string     `json:"note,omitempty"`
}

// GetExport implements GET /export.
// ?from= and ?to= are inclusive days; both default to today.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	loc := s.ledger.Location()
	from, err := queryDay(r, "from", loc)
	if err != nil {
		badParam(w, "from", err)
		return
	}
	to, err := queryDay(r, "to", loc)
	if err != nil {
		badParam(w, "to", err)
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		badParam(w, "format", err)
		return
	}

	today := s.ledger.Today()
	if from == nil {
		from = &today
	}
	if to == nil {
		to = &today
	}
	if to.Before(*from) {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("to must not be before from"))
		return
	}

	rows := s.ledger.Export(*from, *to)
	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the JSON response rows.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			Day:       r.Day,
			SegmentID: r.SegmentID,
			Tag:       r.TagName,
			Start:     r.Start,
			End:       r.End,
			Seconds:   r.Seconds,
			Note:      r.Note,
		})
	}
	return out
}

// writeCSV encodes domain rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	EncodeCSV(&buf, rows)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// EncodeCSV writes the header row and one record per export row to w.
// ledgerctl export shares it with GET /export.
func EncodeCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("handler.EncodeCSV: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(domainRowToCSVRecord(r)); err != nil {
			return fmt.Errorf("handler.EncodeCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("handler.EncodeCSV: %w", err)
	}
	return nil
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A running segment has an empty end.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.Day,
		r.SegmentID,
		r.TagName,
		r.Start.UTC().Format(time.RFC3339),
		formatOptionalTime(r.End),
		strconv.FormatInt(r.Seconds, 10),
		r.Note,
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
