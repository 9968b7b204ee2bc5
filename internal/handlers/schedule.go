package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"
)

// ScheduleFetcher runs one fetch action for a station
type ScheduleFetcher interface {
	Fetch(ctx context.Context, stationCode string) (viewer.Result, error)
}

// ScheduleHandler handles HTTP requests for live station schedules
type ScheduleHandler struct {
	fetcher ScheduleFetcher
	timeout time.Duration
}

// NewScheduleHandler creates a new handler with the given fetcher
func NewScheduleHandler(fetcher ScheduleFetcher, timeout time.Duration) *ScheduleHandler {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ScheduleHandler{fetcher: fetcher, timeout: timeout}
}

// GetSchedule handles GET /api/stations/{code}/schedule
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

	result, err := h.fetcher.Fetch(ctx, code)
	if errors.Is(err, viewer.ErrNoStation) {
		writeError(w, http.StatusBadRequest, "station code is required", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, result.Status, err)
		return
	}

	// Live data, never cache
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, result)
}
