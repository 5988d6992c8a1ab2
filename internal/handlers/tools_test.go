package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"vinylchat/internal/service"
	"vinylchat/internal/service/mocks"
	"vinylchat/internal/tools"
)

func toolsRouter(h *ToolsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/tools", h.List)
	r.Post("/api/tools/{name}", h.Call)
	return r
}

func TestToolsHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChatService := mocks.NewMockChatService(ctrl)
	mockChatService.EXPECT().ListTools(gomock.Any()).Return([]tools.Descriptor{
		{Name: "stats_summary", Description: "stats", InputSchema: map[string]any{"type": "object"}},
	})

	w := httptest.NewRecorder()
	toolsRouter(NewToolsHandler(mockChatService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tools", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["name"] != "stats_summary" || got[0]["inputSchema"] == nil {
		t.Errorf("List() = %v", got)
	}
}

func TestToolsHandler_Call(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		path       string
		body       string
		mockSetup  func(*mocks.MockChatService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "runs tool with arguments",
			path: "/api/tools/list_artists",
			body: `{"starts_with": "g"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().CallTool(gomock.Any(), "list_artists", map[string]any{"starts_with": "g"}).
					Return(tools.Output{Lines: []string{"Girl Talk", "Grimes (4)"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"answer":"Found 2 result(s):`,
		},
		{
			name: "empty body means no arguments",
			path: "/api/tools/stats_summary",
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().CallTool(gomock.Any(), "stats_summary", map[string]any(nil)).
					Return(tools.Output{}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"answer":"No results found."`,
		},
		{
			name:       "invalid body",
			path:       "/api/tools/stats_summary",
			body:       `[1,2`,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown tool",
			path: "/api/tools/nope",
			body: `{}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().CallTool(gomock.Any(), "nope", map[string]any{}).
					Return(tools.Output{}, service.WrapError(service.ErrNotFound, "unknown tool"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "invalid arguments",
			path: "/api/tools/query_vinyl_collection",
			body: `{"query_type": "colour"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().CallTool(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(tools.Output{}, &service.ValidationError{Field: "query_type", Message: "must be one of"})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "query_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)).WithContext(context.Background())
			w := httptest.NewRecorder()
			toolsRouter(NewToolsHandler(mockChatService)).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want to contain %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}
