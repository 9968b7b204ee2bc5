package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// HistoryRepository defines the read side of the query history store
type HistoryRepository interface {
	RecentQueries(ctx context.Context, stationCode string, limit int) ([]models.QueryRecord, error)
	HourlyDelayStats(ctx context.Context, stationCode string, hours int) ([]models.DelayHourlyStat, error)
}

// HistoryHandler handles HTTP requests for query history and delay statistics
type HistoryHandler struct {
	repo HistoryRepository
}

// NewHistoryHandler creates a new handler with the given repository
func NewHistoryHandler(repo HistoryRepository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// GetQueries handles GET /api/queries
// Query params: station (optional), limit (optional, default 20, max 200)
func (h *HistoryHandler) GetQueries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	station := strings.ToUpper(r.URL.Query().Get("station"))
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = min(n, 200)
	}

	queries, err := h.repo.RecentQueries(ctx, station, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get query history", err)
		return
	}

	writeJSON(w, http.StatusOK, models.QueriesResponse{
		Queries: queries,
		Count:   len(queries),
	})
}

// GetDelayStats handles GET /api/delays/stats
// Query params: station (optional), period (optional, default "24h")
func (h *HistoryHandler) GetDelayStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	station := strings.ToUpper(r.URL.Query().Get("station"))
	hours := parsePeriodHours(r.URL.Query().Get("period"))

	stats, err := h.repo.HourlyDelayStats(ctx, station, hours)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get hourly delay stats", err)
		return
	}

	writeJSON(w, http.StatusOK, models.DelayStatsResponse{
		StationCode: station,
		HourlyStats: stats,
		LastChecked: time.Now().UTC(),
	})
}

// parsePeriodHours accepts "24h", "48h", "168h" up to 30 days; anything else is 24
func parsePeriodHours(period string) int {
	hours := 24
	if len(period) > 1 && period[len(period)-1] == 'h' {
		if h, err := strconv.Atoi(period[:len(period)-1]); err == nil && h > 0 && h <= 720 {
			hours = h
		}
	}
	return hours
}
