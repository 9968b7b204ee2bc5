package models

import "time"

// Query outcome constants
const (
	QueryRendered = "rendered"
	QueryNoTrains = "no_trains"
	QueryFailed   = "failed"
)

// QueryRecord is one schedule fetch action kept in the history store
type QueryRecord struct {
	ID          string    `json:"id"`
	StationCode string    `json:"stationCode"`
	Outcome     string    `json:"outcome"` // "rendered", "no_trains", "failed"
	TrainCount  int       `json:"trainCount"`
	Arrivals    int       `json:"arrivals"`
	Departures  int       `json:"departures"`
	DurationMs  int64     `json:"durationMs"`
	Error       *string   `json:"error,omitempty"`
	QueriedAt   time.Time `json:"queriedAt"`
}

// DelayHourlyStat represents hourly delay data for a station
type DelayHourlyStat struct {
	StationCode      string  `json:"stationCode"`
	HourBucket       string  `json:"hourBucket"`
	ObservationCount int     `json:"observationCount"`
	MeanDelayMinutes float64 `json:"meanDelayMinutes"`
	StdDevMinutes    float64 `json:"stdDevMinutes"`
	OnTimePercent    float64 `json:"onTimePercent"`
	MaxDelayMinutes  int     `json:"maxDelayMinutes"`
}

// DelayStatsResponse is the response for GET /api/delays/stats
type DelayStatsResponse struct {
	StationCode string            `json:"stationCode,omitempty"`
	HourlyStats []DelayHourlyStat `json:"hourlyStats"`
	LastChecked time.Time         `json:"lastChecked"`
}

// QueriesResponse is the response for GET /api/queries
type QueriesResponse struct {
	Queries []QueryRecord `json:"queries"`
	Count   int           `json:"count"`
}
