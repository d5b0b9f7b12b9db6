package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"soa-backend/internal/handlers"
	"soa-backend/internal/middleware"
)

func NewRouter(
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Statement generation
	r.HandleFunc("/soa/direct", reportHandler.Direct).Methods(http.MethodPost)
	r.HandleFunc("/soa/reinsurer", reportHandler.Reinsurer).Methods(http.MethodPost)

	// Renewal notice extraction
	r.HandleFunc("/renewal", reportHandler.Renewal).Methods(http.MethodPost)

	// Health checks (no auth, used by probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
