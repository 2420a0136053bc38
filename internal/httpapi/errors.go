package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"modelcheck/pkg/types"
)

var (
	// ErrRunInProgress is returned by Service.Run when another run holds the lock.
	ErrRunInProgress = errors.New("run already in progress")
	// ErrHistoryDisabled is returned by history methods when no store is configured.
	ErrHistoryDisabled = errors.New("run history is disabled")
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.Is(err, ErrRunInProgress):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrHistoryDisabled):
		return http.StatusNotFound
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}
