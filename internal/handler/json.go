package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response", "error", err)
	}
}

// decodeBody decodes a required JSON body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	return nil
}

// pathUUID binds a uuid path parameter the way generated servers do.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	return id, err
}

// pathDay binds a "2006-01-02" path parameter and returns its midnight in loc.
func pathDay(r *http.Request, name string, loc *time.Location) (time.Time, error) {
	var d openapi_types.Date
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &d,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return time.Time{}, err
	}
	return dayIn(d, loc), nil
}

// queryDay binds an optional "2006-01-02" query parameter.
func queryDay(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	var d *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &d); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	t := dayIn(*d, loc)
	return &t, nil
}

// queryInt binds an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v)
	return v, err
}

// queryBool binds an optional boolean query parameter.
func queryBool(r *http.Request, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, err
	}
	return v != nil && *v, nil
}

func dayIn(d openapi_types.Date, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// badParam writes a 422 naming the parameter that failed to bind.
func badParam(w http.ResponseWriter, name string, err error) {
	msg := "invalid " + name
	if err != nil {
		msg += ": " + strings.TrimPrefix(err.Error(), "error binding string parameter: ")
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody(msg))
}
