package schedule

import (
	"fmt"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// Lookup resolves station codes to display names
type Lookup interface {
	StationName(code string) string
}

// Transform maps live trains into the arrival and departure rows of one station.
//
// A train contributes only through the first timetable row at stationCode that is
// a commercial stop; trains without such a row are skipped. Rows whose type is
// neither ARRIVAL nor DEPARTURE are dropped.
func Transform(trains []models.Train, stationCode string, lookup Lookup, f Formatter) models.StationBoard {
	board := models.StationBoard{
		StationCode: stationCode,
		StationName: lookup.StationName(stationCode),
		Arrivals:    []models.ScheduleRow{},
		Departures:  []models.ScheduleRow{},
		TrainCount:  len(trains),
	}

	for _, train := range trains {
		row := matchRow(train, stationCode)
		if row == nil {
			continue
		}

		sr := models.ScheduleRow{
			TrainName:      TrainName(train),
			CommuterLineID: train.CommuterLineID,
			Origin:         lookup.StationName(train.Origin().StationShortCode),
			Destination:    lookup.StationName(train.Destination().StationShortCode),
			Scheduled:      f.FormatTime(row.ScheduledTime),
			Actual:         f.FormatOptionalTime(row.ActualTime),
			Diff:           FormatDiff(row.DifferenceInMinutes),
			Track:          row.CommercialTrack,
			Cancelled:      train.Cancelled || row.Cancelled,
			DelayMinutes:   row.DifferenceInMinutes,
		}

		switch row.Type {
		case models.RowArrival:
			board.Arrivals = append(board.Arrivals, sr)
		case models.RowDeparture:
			board.Departures = append(board.Departures, sr)
		}
	}

	return board
}

// TrainName is the displayed train identifier, e.g. "IC 27"
func TrainName(t models.Train) string {
	return fmt.Sprintf("%s %d", t.TrainType, t.TrainNumber)
}

// matchRow returns the first commercial-stop row of train at stationCode
func matchRow(train models.Train, stationCode string) *models.TimeTableRow {
	for i := range train.TimeTableRows {
		row := &train.TimeTableRows[i]
		if row.StationShortCode == stationCode && row.CommercialStop {
			return row
		}
	}
	return nil
}
