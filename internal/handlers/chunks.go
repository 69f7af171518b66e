package handlers

import (
	"net/http"

	"mdtangle/internal/contextutil"
	"mdtangle/internal/service"
)

// ChunksHandler lists the chunks of a posted document.
type ChunksHandler struct {
	tangleService service.TangleService
}

// NewChunksHandler creates a new ChunksHandler.
func NewChunksHandler(tangleService service.TangleService) *ChunksHandler {
	return &ChunksHandler{
		tangleService: tangleService,
	}
}

// ChunksRequest represents the HTTP request payload for listing chunks.
type ChunksRequest struct {
	Document string `json:"document"`
}

// ChunkJSON describes one chunk.
type ChunkJSON struct {
	Name       string   `json:"name"`
	Lang       string   `json:"lang,omitempty"`
	Parts      int      `json:"parts"`
	References []string `json:"references"`
}

// ChunksResponse represents the HTTP response payload for listing chunks.
type ChunksResponse struct {
	Chunks []ChunkJSON `json:"chunks"`
	Roots  []string    `json:"roots"`
}

func (h *ChunksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var req ChunksRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	listing, err := h.tangleService.ListChunks(ctx, req.Document)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list chunks")
		return
	}

	resp := ChunksResponse{
		Chunks: make([]ChunkJSON, 0, len(listing.Chunks)),
		Roots:  listing.Roots,
	}
	if resp.Roots == nil {
		resp.Roots = []string{}
	}
	for _, c := range listing.Chunks {
		refs := c.References
		if refs == nil {
			refs = []string{}
		}
		resp.Chunks = append(resp.Chunks, ChunkJSON{
			Name:       c.Name,
			Lang:       c.Lang,
			Parts:      c.Parts,
			References: refs,
		})
	}

	writeJSON(w, ctx, http.StatusOK, resp)
}
