package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mdtangle/internal/service"
	"mdtangle/internal/service/mocks"
	"mdtangle/internal/storage"

	"go.uber.org/mock/gomock"
)

func TestRunsHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		url        string
		mockSetup  func(*mocks.MockTangleService)
		wantStatus int
		wantRuns   int
	}{
		{
			name: "default limit",
			url:  "/api/runs",
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().ListRuns(gomock.Any(), defaultRunsLimit).Return([]*storage.RunRecord{
					{ID: "r1", RootChunk: "Main Program", Status: storage.RunStatusOK, CreatedAt: created},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantRuns:   1,
		},
		{
			name: "explicit limit",
			url:  "/api/runs?limit=5",
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().ListRuns(gomock.Any(), 5).Return([]*storage.RunRecord{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-integer limit",
			url:        "/api/runs?limit=ten",
			mockSetup:  func(m *mocks.MockTangleService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "limit out of range",
			url:  "/api/runs?limit=1000",
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().ListRuns(gomock.Any(), 1000).
					Return(nil, &service.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "catalog unavailable",
			url:  "/api/runs",
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().ListRuns(gomock.Any(), defaultRunsLimit).
					Return(nil, fmt.Errorf("%w: locked", service.ErrStorage))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTangleService := mocks.NewMockTangleService(ctrl)
			tt.mockSetup(mockTangleService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			NewRunsHandler(mockTangleService).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp RunsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Runs) != tt.wantRuns {
				t.Errorf("runs = %d, want %d", len(resp.Runs), tt.wantRuns)
			}
			if tt.wantRuns > 0 && resp.Runs[0].CreatedAt != "2026-01-02T03:04:05Z" {
				t.Errorf("created_at = %q", resp.Runs[0].CreatedAt)
			}
		})
	}
}
