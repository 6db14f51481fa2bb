package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vintelli-api/internal/handler"
	"vintelli-api/internal/middleware"
	"vintelli-api/internal/reference"
	"vintelli-api/internal/service"
)

type noopFetcher struct{}

func (noopFetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	return []byte(`<html><body><h1>Levi's 501 Jeans</h1><span>€20,00</span></body></html>`), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	analyzer, err := service.NewAnalyzerService(service.AnalyzerConfig{
		Fetcher: noopFetcher{},
		Dataset: reference.Builtin(),
	})
	if err != nil {
		t.Fatalf("NewAnalyzerService: %v", err)
	}
	page, err := handler.NewPageHandler(handler.PageData{AppName: "Vintelli", Version: "test"})
	if err != nil {
		t.Fatalf("NewPageHandler: %v", err)
	}

	return New(Config{
		Handler:        handler.New("vintelli-api", "test"),
		PageHandler:    page,
		AnalyzeHandler: handler.NewAnalyzeHandler(analyzer),
		AdminHandler:   handler.NewAdminHandler(analyzer, nil, handler.AdminInfo{ReferenceSource: "builtin"}),
	})
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		header map[string]string
		want   int
	}{
		{http.MethodGet, "/", "", nil, http.StatusOK},
		{http.MethodPost, "/analyze", `{"url":"https://www.vinted.fr/items/9-levis-501"}`, nil, http.StatusOK},
		{http.MethodPost, "/api/v1/analyze", `{"url":"https://www.vinted.fr/items/9-levis-501"}`, nil, http.StatusOK},
		{http.MethodPost, "/api/v1/analyze", `{"url":""}`, nil, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/analyze", "", nil, http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/status", "", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/health", "", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/ready", "", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/reference", "", nil, http.StatusOK},
		{http.MethodGet, "/api/v1/admin/stats", "", nil, http.StatusOK},
		{http.MethodPost, "/api/v1/admin/cache/clear", "", nil, http.StatusNotFound},
		{http.MethodGet, "/api/v1/admin/health", "", map[string]string{"Origin": "https://example.com"}, http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}
