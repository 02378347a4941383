package rest

import (
	"net/http"
	"time"
)

// HealthHandler provides HTTP health check endpoints for the scoring service.
type HealthHandler struct {
	modelLoaded func() bool
	startTime   time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(modelLoaded func() bool) *HealthHandler {
	return &HealthHandler{
		modelLoaded: modelLoaded,
		startTime:   time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Health always answers 200 and reports whether the model is loaded.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		ModelLoaded: h.modelLoaded(),
	})
}

// Readyz answers 503 until the model is loaded.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	resp := ReadinessResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		Checks: map[string]string{"model": "ok"},
	}
	code := http.StatusOK
	if !h.modelLoaded() {
		resp.Status = "not_ready"
		resp.Checks["model"] = "not loaded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
