package handlers

import (
	"net/http"

	"mdtangle/internal/contextutil"
	"mdtangle/internal/service"
)

// TangleHandler handles HTTP requests for tangling a document.
type TangleHandler struct {
	tangleService service.TangleService
}

// NewTangleHandler creates a new TangleHandler.
func NewTangleHandler(tangleService service.TangleService) *TangleHandler {
	return &TangleHandler{
		tangleService: tangleService,
	}
}

// TangleRequest represents the HTTP request payload for tangle.
type TangleRequest struct {
	Document string `json:"document"`
	Root     string `json:"root,omitempty"`
}

// TangleResponse represents the HTTP response payload for tangle.
type TangleResponse struct {
	Root   string `json:"root"`
	Output string `json:"output"`
}

// ServeHTTP handles HTTP requests for tangle.
//
// Responds 200 with the assembled output, 422 with the error kind when the document
// cannot be tangled, and 400 for malformed requests.
func (h *TangleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var req TangleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	svcResp, err := h.tangleService.Tangle(ctx, service.TangleRequest{
		Document: req.Document,
		Root:     req.Root,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to tangle document")
		return
	}

	writeJSON(w, ctx, http.StatusOK, TangleResponse{
		Root:   svcResp.Root,
		Output: svcResp.Output,
	})
}
