package handlers

import (
	"net/http"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// StationCatalog defines the read side of the station catalog
type StationCatalog interface {
	Options() []models.StationOption
	Station(code string) (models.Station, bool)
	Len() int
}

// StationHandler handles HTTP requests for the station list
type StationHandler struct {
	catalog StationCatalog
}

// NewStationHandler creates a new handler over the given catalog
func NewStationHandler(c StationCatalog) *StationHandler {
	return &StationHandler{catalog: c}
}

// StationsResponse is the JSON response for GET /api/stations
type StationsResponse struct {
	Stations []models.StationOption `json:"stations"`
	Count    int                    `json:"count"`
	Query    string                 `json:"query,omitempty"`
}

// GetStations handles GET /api/stations
// Query params: q (optional, case-insensitive substring of "name (code)")
func (h *StationHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	visible := catalog.Visible(catalog.Filter(h.catalog.Options(), query))
	if visible == nil {
		visible = []models.StationOption{}
	}

	// The catalog only changes on restart
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, StationsResponse{
		Stations: visible,
		Count:    len(visible),
		Query:    query,
	})
}
