package models

import "time"

// ScheduleRow is one table line of a station board.
// Origin and Destination are always the train's overall endpoints.
type ScheduleRow struct {
	TrainName      string `json:"trainName"` // "IC 27"
	CommuterLineID string `json:"commuterLineId,omitempty"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	Scheduled      string `json:"scheduled"` // formatted hour:minute
	Actual         string `json:"actual"`    // formatted or "-"
	Diff           string `json:"diff"`      // "+5 min", "-3 min" or "-"
	Track          string `json:"track,omitempty"`
	Cancelled      bool   `json:"cancelled,omitempty"`

	// Raw delay, not rendered; feeds delay statistics
	DelayMinutes *int `json:"-"`
}

// StationBoard is the transformed schedule of one station
type StationBoard struct {
	StationCode string        `json:"stationCode"`
	StationName string        `json:"stationName"`
	Arrivals    []ScheduleRow `json:"arrivals"`
	Departures  []ScheduleRow `json:"departures"`
	TrainCount  int           `json:"trainCount"` // trains returned by the API, before filtering
	FetchedAt   time.Time     `json:"fetchedAt"`
}

// DelayObservations returns the delays of all rows that carry one
func (b StationBoard) DelayObservations() []int {
	var out []int
	for _, rows := range [][]ScheduleRow{b.Arrivals, b.Departures} {
		for _, row := range rows {
			if row.DelayMinutes != nil {
				out = append(out, *row.DelayMinutes)
			}
		}
	}
	return out
}
