package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meltforce/liftlog/internal/stats"
	"github.com/meltforce/liftlog/internal/storage"
)

// Issue is one field-level validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   string  `json:"error"`
	Details []Issue `json:"details,omitempty"`
}

type dataBody struct {
	Data any `json:"data"`
}

// httpError is an error that already knows its status and public message.
type httpError struct {
	status  int
	message string
	details []Issue
}

func (e *httpError) Error() string { return e.message }

func badRequest(msg string) error {
	return &httpError{status: http.StatusBadRequest, message: msg}
}

// entityError names the entity in not-found and conflict responses.
func entityError(entity string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &httpError{status: http.StatusNotFound, message: entity + " not found"}
	case errors.Is(err, storage.ErrConflict):
		return &httpError{status: http.StatusConflict, message: entity + " already exists"}
	}
	return err
}

// statusFor maps an error onto its HTTP status and the message safe to show clients.
func statusFor(err error) (int, errorBody) {
	var he *httpError
	if errors.As(err, &he) {
		return he.status, errorBody{Error: he.message, Details: he.details}
	}
	switch {
	case errors.Is(err, stats.ErrProfileNotFound):
		return http.StatusNotFound, errorBody{Error: "Profile not found"}
	case errors.Is(err, stats.ErrUnsupportedGranularity):
		return http.StatusBadRequest, errorBody{Error: "Unsupported granularity"}
	case errors.Is(err, stats.ErrExerciseRequired):
		return http.StatusBadRequest, errorBody{Error: "exercise_id or exercise_name is required"}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: "Not found"}
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, errorBody{Error: "Already exists"}
	case errors.Is(err, storage.ErrInvalidReference):
		return http.StatusBadRequest, errorBody{Error: "Referenced entity does not exist"}
	case errors.Is(err, storage.ErrOutOfRange):
		return http.StatusBadRequest, errorBody{Error: "Value out of range"}
	}
	return http.StatusInternalServerError, errorBody{Error: "Internal server error"}
}

// fail writes the error response. Server errors are logged with the request id;
// their details never reach the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dataBody{Data: v})
}
