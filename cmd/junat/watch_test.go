package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/schedule"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"
)

type staticTrains map[string][]models.Train

func (s staticTrains) LiveTrains(_ context.Context, code string) ([]models.Train, error) {
	return s[code], nil
}

func testWatcher(out *bytes.Buffer) *watcher {
	cat := catalog.New([]models.Station{
		{StationShortCode: "HKI", StationName: "Helsinki", PassengerTraffic: true},
		{StationShortCode: "TPE", StationName: "Tampere", PassengerTraffic: true},
	})
	dep := time.Date(2025, 1, 31, 8, 0, 0, 0, time.UTC)
	trains := staticTrains{"HKI": {{
		TrainNumber: 45,
		TrainType:   "IC",
		TimeTableRows: []models.TimeTableRow{
			{StationShortCode: "HKI", Type: models.RowDeparture, CommercialStop: true, ScheduledTime: dep},
			{StationShortCode: "TPE", Type: models.RowArrival, CommercialStop: true, ScheduledTime: dep.Add(90 * time.Minute)},
		},
	}}}

	labels := config.DefaultLabels()
	v := viewer.New(viewer.Options{
		Trains:    trains,
		Lookup:    cat,
		Formatter: schedule.Formatter{Location: time.UTC, Layout: "15.04"},
		Labels:    labels,
	})
	return newWatcher(viewer.NewSession(v), cat.Options(), labels, out)
}

func TestWatcher_Commands(t *testing.T) {
	var out bytes.Buffer
	w := testWatcher(&out)

	in := strings.NewReader("/q tam\nhki\n/exit\nTPE\n")
	require.NoError(t, w.run(context.Background(), in, 0))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Select a station.\n"))
	assert.Contains(t, text, "Tampere (TPE)\n(1)\n")
	assert.NotContains(t, text, "Helsinki (HKI)")
	assert.Contains(t, text, "Fetching station data…")
	assert.Contains(t, text, "Found 1 trains")
	assert.Contains(t, text, "Departing trains")
	assert.Contains(t, text, "08.00")
	// Lines after /exit are not read
	assert.NotContains(t, text, "No trains currently.")
}

func TestWatcher_UnknownCommandShowsHelp(t *testing.T) {
	var out bytes.Buffer
	w := testWatcher(&out)

	require.NoError(t, w.run(context.Background(), strings.NewReader("/nope\n"), 0))
	assert.Contains(t, out.String(), "/q TEXT")
}

func TestPrintResult_StatusOnly(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printResult(&out, viewer.Result{State: viewer.StateStatus, Status: "Fetch failed."}, config.DefaultLabels()))
	assert.Equal(t, "Fetch failed.\n", out.String())
}
