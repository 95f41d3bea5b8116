package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tourforge/tourforge/pkg/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeStoreError maps the domain sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTreeNotFound):
		writeError(w, http.StatusNotFound, "Decision tree not found")
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Tour session not found")
	case errors.Is(err, domain.ErrNodeNotFound):
		writeError(w, http.StatusNotFound, "Node not found")
	case errors.Is(err, domain.ErrEdgeNotFound):
		writeError(w, http.StatusNotFound, "Edge not found")
	case errors.Is(err, domain.ErrFeedbackNotFound):
		writeError(w, http.StatusNotFound, "Feedback not found")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody parses the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
