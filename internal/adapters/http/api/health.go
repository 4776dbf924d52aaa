package api

import (
	"net/http"

	"github.com/okian/plains/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthProvider reports whether the league service is accepting operations.
type HealthProvider interface {
	Started() bool
}

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps HealthProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthProvider) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	if !h.deps.Started() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// MetricsHandler serves the custom metrics registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
