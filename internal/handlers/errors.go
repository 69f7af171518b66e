package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mdtangle/internal/chunk"
	"mdtangle/internal/contextutil"
	"mdtangle/internal/service"
)

// maxBodyBytes limits the size of request documents.
const maxBodyBytes = 10 << 20

// ErrorResponse represents an error response.
// Kind is set for tangle failures, e.g. "undefined_chunk".
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()), "")
		return
	}

	// Tangle failures are the document's fault, not the server's.
	if kind := chunk.Kind(err); kind != "" {
		logger.InfoContext(ctx, "tangle error", "error", err, "kind", kind)
		writeError(w, http.StatusUnprocessableEntity, err.Error(), kind)
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	if errors.Is(err, service.ErrStorage) {
		writeError(w, http.StatusServiceUnavailable, "Run catalog unavailable", "")
		return
	}

	// Default to internal server error
	writeError(w, http.StatusInternalServerError, defaultMsg, "")
}

// decodeJSON decodes a size limited JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Kind:  kind,
	})
}
