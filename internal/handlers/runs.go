package handlers

import (
	"net/http"
	"strconv"
	"time"

	"mdtangle/internal/contextutil"
	"mdtangle/internal/service"
)

// defaultRunsLimit is used when the limit query parameter is absent.
const defaultRunsLimit = 20

// RunsHandler lists recent tangle runs from the catalog.
type RunsHandler struct {
	tangleService service.TangleService
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(tangleService service.TangleService) *RunsHandler {
	return &RunsHandler{
		tangleService: tangleService,
	}
}

// RunJSON describes one recorded run.
type RunJSON struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Root       string `json:"root"`
	Output     string `json:"output"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// RunsResponse represents the HTTP response payload for listing runs.
type RunsResponse struct {
	Runs []RunJSON `json:"runs"`
}

func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	limit := defaultRunsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			logger.WarnContext(ctx, "invalid limit", "limit", s)
			writeError(w, http.StatusBadRequest, "limit must be an integer", "")
			return
		}
		limit = n
	}

	runs, err := h.tangleService.ListRuns(ctx, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list runs")
		return
	}

	resp := RunsResponse{Runs: make([]RunJSON, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, RunJSON{
			ID:         run.ID,
			DocumentID: run.DocumentID,
			Root:       run.RootChunk,
			Output:     run.OutputPath,
			Status:     run.Status,
			ErrorKind:  run.ErrorKind,
			Error:      run.Error,
			CreatedAt:  run.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, ctx, http.StatusOK, resp)
}
