package models

import "fmt"

// Station is one entry of the Digitraffic station catalog (GET /metadata/stations)
type Station struct {
	StationShortCode string  `json:"stationShortCode"` // "HKI", "TPE"
	StationName      string  `json:"stationName"`      // "Helsinki asema"
	PassengerTraffic bool    `json:"passengerTraffic"`
	Type             string  `json:"type,omitempty"` // "STATION", "STOPPING_POINT", "TURNOUT_IN_THE_OPEN_LINE"
	StationUICCode   int     `json:"stationUICCode,omitempty"`
	CountryCode      string  `json:"countryCode,omitempty"`
	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
}

// DisplayName is the text shown in the station selector: "name (code)"
func (s Station) DisplayName() string {
	return fmt.Sprintf("%s (%s)", s.StationName, s.StationShortCode)
}

// StationOption is a selectable entry of the station list
type StationOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden,omitempty"`
}
