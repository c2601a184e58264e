// Package handlers contains the HTTP handlers for the payments API.
// Every response body is JSON; errors map to status codes through the
// application error taxonomy.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
)

// ensureLogger substitutes a no-op logger for nil.
func ensureLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps err to its HTTP status and writes the standard
// error envelope. Internal errors are logged but never leaked.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	if status >= 500 {
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
		message = "internal error"
	}

	body := map[string]any{"error": message}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Details != nil {
		body["details"] = appErr.Details
	}
	respondJSON(w, status, body)
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation("invalid JSON body")
	}
	return nil
}
