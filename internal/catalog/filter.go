package catalog

import (
	"strings"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// Filter marks every option whose label does not contain query
// (case-insensitive) as hidden. An empty query shows everything.
func Filter(options []models.StationOption, query string) []models.StationOption {
	needle := strings.ToLower(query)
	out := make([]models.StationOption, len(options))
	for i, opt := range options {
		opt.Hidden = !strings.Contains(strings.ToLower(opt.Label), needle)
		out[i] = opt
	}
	return out
}

// Visible returns only the options Filter left visible
func Visible(options []models.StationOption) []models.StationOption {
	var out []models.StationOption
	for _, opt := range options {
		if !opt.Hidden {
			out = append(out, opt)
		}
	}
	return out
}
