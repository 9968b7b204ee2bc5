package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks connectivity of the history store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles liveness and readiness checks
type HealthHandler struct {
	store   Pinger // nil when history is disabled
	catalog StationCatalog
}

// NewHealthHandler creates a new handler. store may be nil.
func NewHealthHandler(store Pinger, c StationCatalog) *HealthHandler {
	return &HealthHandler{store: store, catalog: c}
}

// GetHealth handles GET /health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := map[string]interface{}{
		"status":    "ok",
		"database":  "disabled",
		"stations":  h.catalog.Len(),
		"timestamp": time.Now().UTC(),
	}

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			response["status"] = "error"
			response["database"] = "disconnected"
			response["error"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, response)
			return
		}
		response["database"] = "connected"
	}

	writeJSON(w, http.StatusOK, response)
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ping handles GET /api/ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}
