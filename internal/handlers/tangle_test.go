package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mdtangle/internal/chunk"
	"mdtangle/internal/service"
	"mdtangle/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestNewTangleHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTangleService := mocks.NewMockTangleService(ctrl)
	handler := NewTangleHandler(mockTangleService)

	if handler == nil {
		t.Fatal("NewTangleHandler() returned nil")
	}
	if handler.tangleService != mockTangleService {
		t.Error("NewTangleHandler() tangleService not set correctly")
	}
}

func TestTangleHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name          string
		method        string
		body          any
		mockSetup     func(*mocks.MockTangleService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "successful POST request",
			method: http.MethodPost,
			body:   TangleRequest{Document: "doc", Root: "Main Program"},
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().
					Tangle(gomock.Any(), service.TangleRequest{Document: "doc", Root: "Main Program"}).
					Return(service.TangleResponse{Root: "Main Program", Output: "print(1)"}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp TangleResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Output != "print(1)" || resp.Root != "Main Program" {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockTangleService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockTangleService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "validation error",
			method: http.MethodPost,
			body:   TangleRequest{},
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().
					Tangle(gomock.Any(), service.TangleRequest{}).
					Return(service.TangleResponse{}, &service.ValidationError{Field: "document", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "circular reference",
			method: http.MethodPost,
			body:   TangleRequest{Document: "doc"},
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().
					Tangle(gomock.Any(), gomock.Any()).
					Return(service.TangleResponse{}, &chunk.CircularReferenceError{Chain: []string{"A", "B", "A"}})
			},
			wantStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Kind != chunk.KindCircularReference {
					t.Errorf("kind = %q, want %q", resp.Kind, chunk.KindCircularReference)
				}
				if resp.Error != "circular reference detected: A -> B -> A" {
					t.Errorf("error = %q", resp.Error)
				}
			},
		},
		{
			name:   "service error",
			method: http.MethodPost,
			body:   TangleRequest{Document: "doc"},
			mockSetup: func(m *mocks.MockTangleService) {
				m.EXPECT().
					Tangle(gomock.Any(), gomock.Any()).
					Return(service.TangleResponse{}, errors.New("service error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTangleService := mocks.NewMockTangleService(ctrl)
			tt.mockSetup(mockTangleService)
			handler := NewTangleHandler(mockTangleService)

			var body []byte
			if tt.body != nil {
				if s, ok := tt.body.(string); ok {
					body = []byte(s)
				} else {
					body, _ = json.Marshal(tt.body)
				}
			}

			req := httptest.NewRequest(tt.method, "/api/tangle", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
