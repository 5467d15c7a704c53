package api

import (
	"net/http"
	"strings"

	"github.com/okian/eventmatch/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a health handler serving the service registry.
func NewHealthHandler() *HealthHandler {
	return NewHealthHandlerFor(metrics.GetRegistry())
}

// NewHealthHandlerFor creates a health handler serving g.
func NewHealthHandlerFor(g prometheus.Gatherer) *HealthHandler {
	return &HealthHandler{metrics: promhttp.HandlerFor(g, promhttp.HandlerOpts{})}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz requests.
// Clients whose Accept header lists application/json get a status
// document; everyone else gets the Prometheus exposition.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if accept := r.Header.Get("Accept"); strings.Contains(accept, "application/json") {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.metrics.ServeHTTP(w, r)
}
