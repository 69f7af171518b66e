package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mdtangle/internal/chunk"
	"mdtangle/internal/handlers"
	"mdtangle/internal/service"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newTestRouter() http.Handler {
	return NewRouter(&Deps{
		TangleService: service.NewTangleService(chunk.NewRegexScanner(), "", nil),
		DB:            okPinger{},
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "POST /api/tangle with invalid body",
			method:     http.MethodPost,
			path:       "/api/tangle",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/tangle method not allowed",
			method:     http.MethodGet,
			path:       "/api/tangle",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /api/chunks with empty document",
			method:     http.MethodPost,
			path:       "/api/chunks",
			body:       `{"document":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/runs without catalog",
			method:     http.MethodGet,
			path:       "/api/runs",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/unknown",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_Tangle(t *testing.T) {
	router := newTestRouter()

	doc := "```go <<Main Program>>=\npackage main\n<<Imports>>\n```\n" +
		"```go <<Imports>>=\nimport \"fmt\"\n```\n"

	tests := []struct {
		name       string
		root       string
		wantStatus int
		wantOutput string
		wantKind   string
	}{
		{
			name:       "default root",
			wantStatus: http.StatusOK,
			wantOutput: "package main\nimport \"fmt\"",
		},
		{
			name:       "undefined root",
			root:       "Missing",
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   chunk.KindUndefinedChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(handlers.TangleRequest{Document: doc, Root: tt.root})
			req := httptest.NewRequest(http.MethodPost, "/api/tangle", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("POST /api/tangle status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.wantKind != "" {
				var resp handlers.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if resp.Kind != tt.wantKind {
					t.Errorf("kind = %q, want %q", resp.Kind, tt.wantKind)
				}
				return
			}

			var resp handlers.TangleResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Output != tt.wantOutput {
				t.Errorf("output = %q, want %q", resp.Output, tt.wantOutput)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
