package render

import (
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// Table modes
const (
	ModeArrival   = "arrival"
	ModeDeparture = "departure"
)

// ColumnCount is the number of columns of every schedule table
const ColumnCount = 5

// Table is one rendered section of the station board
type Table struct {
	Mode    string
	Title   string
	Headers [ColumnCount]string
	Empty   string
	Rows    []Row
}

// Row is one table line; Counterpart is the origin for arrivals and the
// destination for departures
type Row struct {
	Train       string
	Counterpart string
	Scheduled   string
	Actual      string
	Diff        string
	Cancelled   bool
}

// BuildTables turns a station board into the arriving and departing tables
func BuildTables(board models.StationBoard, labels config.Labels) []Table {
	return []Table{
		buildTable(ModeArrival, board.Arrivals, labels),
		buildTable(ModeDeparture, board.Departures, labels),
	}
}

func buildTable(mode string, rows []models.ScheduleRow, labels config.Labels) Table {
	t := Table{Mode: mode, Empty: labels.EmptyTable}

	if mode == ModeArrival {
		t.Title = labels.ArrivingTitle
		t.Headers = [ColumnCount]string{labels.TrainColumn, labels.OriginColumn, labels.ArrivalColumn, labels.ActualColumn, labels.DelayColumn}
	} else {
		t.Title = labels.DepartingTitle
		t.Headers = [ColumnCount]string{labels.TrainColumn, labels.DestinationColumn, labels.DepartureColumn, labels.ActualColumn, labels.DelayColumn}
	}

	for _, r := range rows {
		counterpart := r.Destination
		if mode == ModeArrival {
			counterpart = r.Origin
		}
		t.Rows = append(t.Rows, Row{
			Train:       r.TrainName,
			Counterpart: counterpart,
			Scheduled:   r.Scheduled,
			Actual:      r.Actual,
			Diff:        r.Diff,
			Cancelled:   r.Cancelled,
		})
	}
	return t
}
