package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/bibbank/risk-service/internal/domain/port"
)

// readinessTimeout bounds every dependency ping.
const readinessTimeout = 2 * time.Second

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	serviceName string
	checks      map[string]port.HealthChecker
	startedAt   time.Time
	logger      *slog.Logger
}

// NewHealthHandler creates a new HealthHandler. Readiness pings every named checker.
func NewHealthHandler(serviceName string, checks map[string]port.HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		checks:      checks,
		startedAt:   time.Now(),
		logger:      logger,
	}
}

// healthResponse is the JSON response for health check endpoints.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// readinessResponse is the JSON response for the readiness endpoint.
type readinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// Liveness handles the liveness probe endpoint (GET /healthz).
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: h.serviceName,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Readiness handles the readiness probe endpoint (GET /readyz).
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := readinessResponse{
		Status:  "ok",
		Service: h.serviceName,
		Checks:  make(map[string]string, len(names)),
	}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, code, resp)
}

// RegisterRoutes registers health check routes, and /metrics when a handler is given.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", h.Liveness)
	mux.HandleFunc("GET /readyz", h.Readiness)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
