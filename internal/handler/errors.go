package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/activity-ledger/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "segment not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// errorCodes maps the 422 sentinels to their response code.
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInvalidRange, "invalid_range"},
	{domain.ErrOverlap, "overlap"},
	{domain.ErrInvalidSplit, "invalid_split"},
	{domain.ErrValidation, "validation_error"},
}

// classify maps a service error to its HTTP status and detail.
// notFound is the message used for domain.ErrNotFound.
// Unknown errors become a 500 without leaking details.
func classify(err error, notFound string) (int, ErrorDetail) {
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, notFoundBody(notFound).Error
	}
	if errors.Is(err, domain.ErrUndoExpired) {
		return http.StatusConflict, ErrorDetail{Code: "undo_expired", Message: "nothing to undo"}
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return http.StatusUnprocessableEntity, ErrorDetail{Code: ec.code, Message: unwrapMessage(err, ec.err)}
		}
	}
	return http.StatusInternalServerError, ErrorDetail{Code: "internal_error", Message: "internal server error"}
}

// writeServiceError writes the classified error as an ErrorResponse.
func writeServiceError(w http.ResponseWriter, err error, notFound string) {
	status, detail := classify(err, notFound)
	if status == http.StatusInternalServerError {
		slog.Error("handler: unexpected service error", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}

// unwrapMessage extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.Ledger.UpdateSegment: overlap: conflicts with segment X" → "conflicts with segment X"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}
