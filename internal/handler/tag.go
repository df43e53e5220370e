package handler

import "net/http"

// CreateTagRequest is the body of POST /tags.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// UpdateTagRequest is the body of PATCH /tags/{tagId}. Absent fields are unchanged.
type UpdateTagRequest struct {
	Name   *string `json:"name"`
	Hidden *bool   `json:"hidden"`
}

// ListTags handles GET /tags.
// Hidden tags are included with ?include_hidden=true.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	includeHidden, err := queryBool(r, "include_hidden")
	if err != nil {
		badParam(w, "include_hidden", err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Tags(includeHidden))
}

// CreateTag handles POST /tags.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var body CreateTagRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	created, err := s.ledger.CreateTag(body.Name)
	if err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTag handles PATCH /tags/{tagId}.
func (s *Server) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tagId")
	if err != nil {
		badParam(w, "tagId", err)
		return
	}
	var body UpdateTagRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	updated, err := s.ledger.UpdateTag(id, body.Name, body.Hidden)
	if err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTag handles DELETE /tags/{tagId}.
// Tags still referenced by segments are rejected with 422; hide them instead.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tagId")
	if err != nil {
		badParam(w, "tagId", err)
		return
	}
	if err := s.ledger.DeleteTag(id); err != nil {
		writeServiceError(w, err, "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

