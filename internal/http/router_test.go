package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"soa-backend/internal/handlers"
	"soa-backend/internal/health"
)

func TestNewRouter(t *testing.T) {
	report := handlers.NewReportHandler(nil, nil, handlers.UploadLimits{}, nil)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(t.TempDir()))
	r := NewRouter(report, healthHandler)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "wrong method", method: http.MethodGet, path: "/soa/direct", want: http.StatusMethodNotAllowed},
		{name: "not multipart", method: http.MethodPost, path: "/soa/direct", want: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
