package models

import "time"

// RowType is the kind of a timetable event
type RowType string

const (
	RowArrival   RowType = "ARRIVAL"
	RowDeparture RowType = "DEPARTURE"
)

// Train is a live train record as returned by GET /live-trains.
// The first timetable row is the train's origin, the last its destination.
type Train struct {
	TrainNumber       int            `json:"trainNumber"`
	DepartureDate     string         `json:"departureDate"` // "2025-01-31"
	OperatorShortCode string         `json:"operatorShortCode,omitempty"`
	TrainType         string         `json:"trainType"`     // "IC", "HL", "PYO"
	TrainCategory     string         `json:"trainCategory"` // "Long-distance", "Commuter"
	CommuterLineID    string         `json:"commuterLineID,omitempty"`
	RunningCurrently  bool           `json:"runningCurrently"`
	Cancelled         bool           `json:"cancelled"`
	Version           int64          `json:"version,omitempty"`
	TimeTableRows     []TimeTableRow `json:"timeTableRows"`
}

// TimeTableRow is one scheduled event of a train at a station
type TimeTableRow struct {
	StationShortCode    string     `json:"stationShortCode"`
	StationUICCode      int        `json:"stationUICCode,omitempty"`
	CountryCode         string     `json:"countryCode,omitempty"`
	Type                RowType    `json:"type"`
	TrainStopping       bool       `json:"trainStopping"`
	CommercialStop      bool       `json:"commercialStop"`
	CommercialTrack     string     `json:"commercialTrack,omitempty"`
	Cancelled           bool       `json:"cancelled"`
	ScheduledTime       time.Time  `json:"scheduledTime"`
	ActualTime          *time.Time `json:"actualTime,omitempty"`
	LiveEstimateTime    *time.Time `json:"liveEstimateTime,omitempty"`
	DifferenceInMinutes *int       `json:"differenceInMinutes,omitempty"`
}

// Origin returns the train's first timetable row, or nil for an empty timetable
func (t Train) Origin() *TimeTableRow {
	if len(t.TimeTableRows) == 0 {
		return nil
	}
	return &t.TimeTableRows[0]
}

// Destination returns the train's last timetable row, or nil for an empty timetable
func (t Train) Destination() *TimeTableRow {
	if len(t.TimeTableRows) == 0 {
		return nil
	}
	return &t.TimeTableRows[len(t.TimeTableRows)-1]
}
