package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"coursecatalog/internal/domain/course"
)

// maxBodyBytes bounds request bodies; a course is well under 1 KiB.
const maxBodyBytes = 64 << 10

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string            `json:"error"`
	Errors    map[string]string `json:"errors,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// writeError maps course errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	if v, ok := course.AsValidation(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Errors: v})
		return
	}
	switch {
	case errors.Is(err, course.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "course not found"})
	case errors.Is(err, course.ErrEditForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: course.ErrEditForbidden.Error()})
	case errors.Is(err, course.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case course.IsRetryable(err):
		slog.Warn("course_fetch_failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "could not load courses", Retryable: true})
	default:
		internalError(w, err)
	}
}
