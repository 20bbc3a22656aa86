package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"greep/internal/auth"
	"greep/internal/core"
	"greep/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors to HTTP status codes. Validation failures are
// 422, unknown records 404, bad input 400 and auth failures 401.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"path", r.URL.Path, "error", err)
		// Internal details stay out of the response body
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidRole),
		errors.Is(err, core.ErrInvalidTier),
		errors.Is(err, core.ErrInvalidExpenseType),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrMissingDriver),
		errors.Is(err, core.ErrMissingInvestor),
		errors.Is(err, core.ErrMissingUserRef),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
