// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the recommendation and search endpoints and keeps a clear
// separation between HTTP concerns and pipeline logic.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avichal16/moodmatch-api/internal/domain"
)

// errorBody is the flat wire error shape: {"error": ..., "details": ...}.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "recommendation pipeline failed",
			Details: err.Error(),
		})
		return
	}
	// Client-facing messages travel in the typed error; wrapped provider
	// errors fall back to their full text.
	msg, ok := domain.UserMessage(err)
	if !ok {
		msg = err.Error()
	}
	writeJSON(w, status, errorBody{Error: msg})
}
