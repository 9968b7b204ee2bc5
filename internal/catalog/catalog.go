package catalog

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// StationSource supplies the full station catalog
type StationSource interface {
	Stations(ctx context.Context) ([]models.Station, error)
}

// Catalog is the read-only station reference data, built once at startup.
// It is safe for concurrent readers.
type Catalog struct {
	stations []models.Station
	byCode   map[string]models.Station
	options  []models.StationOption
}

// Load fetches the station catalog from src and builds the lookup.
// There is no retry: on failure the caller keeps an Empty catalog.
func Load(ctx context.Context, src StationSource) (*Catalog, error) {
	stations, err := src.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load station catalog: %w", err)
	}
	return New(stations), nil
}

// New builds a catalog from stations, sorted by name in Finnish collation order
func New(stations []models.Station) *Catalog {
	sorted := make([]models.Station, len(stations))
	copy(sorted, stations)

	col := collate.New(language.Finnish)
	sort.SliceStable(sorted, func(i, j int) bool {
		return col.CompareString(sorted[i].StationName, sorted[j].StationName) < 0
	})

	c := &Catalog{
		stations: sorted,
		byCode:   make(map[string]models.Station, len(sorted)),
	}
	for _, st := range sorted {
		if _, exists := c.byCode[st.StationShortCode]; !exists {
			c.byCode[st.StationShortCode] = st
		}
		if st.PassengerTraffic {
			c.options = append(c.options, models.StationOption{
				Code:  st.StationShortCode,
				Label: st.DisplayName(),
			})
		}
	}
	return c
}

// Empty returns a catalog without stations. Lookups fall back to raw codes.
func Empty() *Catalog {
	return New(nil)
}

// StationName returns the name for code, or code itself when unknown
func (c *Catalog) StationName(code string) string {
	if st, ok := c.byCode[code]; ok {
		return st.StationName
	}
	return code
}

// Station looks up a station by its short code
func (c *Catalog) Station(code string) (models.Station, bool) {
	st, ok := c.byCode[code]
	return st, ok
}

// Stations returns every station sorted by name
func (c *Catalog) Stations() []models.Station {
	out := make([]models.Station, len(c.stations))
	copy(out, c.stations)
	return out
}

// Options returns the selectable passenger stations, sorted by name
func (c *Catalog) Options() []models.StationOption {
	out := make([]models.StationOption, len(c.options))
	copy(out, c.options)
	return out
}

// Len returns the number of stations in the catalog
func (c *Catalog) Len() int {
	return len(c.stations)
}
