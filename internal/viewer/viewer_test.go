package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/schedule"
)

type fakeTrains struct {
	mu     sync.Mutex
	trains map[string][]models.Train
	err    error
	calls  []string
	// gates holds a channel per station; LiveTrains blocks until it is closed
	gates map[string]chan struct{}
}

func (f *fakeTrains) LiveTrains(ctx context.Context, code string) ([]models.Train, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code)
	gate := f.gates[code]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.trains[code], nil
}

type fakeHistory struct {
	mu      sync.Mutex
	records []models.QueryRecord
	delays  map[string][]int
	err     error
}

func (f *fakeHistory) RecordQuery(_ context.Context, rec models.QueryRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return "id", f.err
}

func (f *fakeHistory) UpdateDelayStats(_ context.Context, code string, delays []int, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delays == nil {
		f.delays = map[string][]int{}
	}
	f.delays[code] = append(f.delays[code], delays...)
	return f.err
}

var testCatalog = catalog.New([]models.Station{
	{StationShortCode: "HKI", StationName: "Helsinki", PassengerTraffic: true},
	{StationShortCode: "RI", StationName: "Riihimäki", PassengerTraffic: true},
	{StationShortCode: "TPE", StationName: "Tampere", PassengerTraffic: true},
})

func delay(i int) *int { return &i }

func riTrain() models.Train {
	base := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	return models.Train{
		TrainNumber: 27,
		TrainType:   "IC",
		TimeTableRows: []models.TimeTableRow{
			{StationShortCode: "HKI", Type: models.RowDeparture, CommercialStop: true, ScheduledTime: base},
			{StationShortCode: "RI", Type: models.RowArrival, CommercialStop: true, ScheduledTime: base.Add(30 * time.Minute), DifferenceInMinutes: delay(4)},
			{StationShortCode: "TPE", Type: models.RowArrival, CommercialStop: true, ScheduledTime: base.Add(90 * time.Minute)},
		},
	}
}

func newTestViewer(src TrainSource, history HistoryRecorder) *Viewer {
	opts := Options{
		Trains:    src,
		Lookup:    testCatalog,
		Formatter: schedule.Formatter{Location: time.UTC, Layout: "15.04"},
		Labels:    config.DefaultLabels(),
	}
	if history != nil {
		opts.History = history
	}
	return New(opts)
}

func TestFetch_EmptyStationMakesNoRequest(t *testing.T) {
	src := &fakeTrains{}
	v := newTestViewer(src, nil)

	result, err := v.Fetch(context.Background(), "")
	require.ErrorIs(t, err, ErrNoStation)
	assert.Equal(t, StateStatus, result.State)
	assert.Equal(t, "Select a station.", result.Status)
	assert.Nil(t, result.Board)
	assert.Empty(t, src.calls)
}

func TestFetch_RendersBoard(t *testing.T) {
	src := &fakeTrains{trains: map[string][]models.Train{"RI": {riTrain()}}}
	history := &fakeHistory{}
	v := newTestViewer(src, history)

	result, err := v.Fetch(context.Background(), "RI")
	require.NoError(t, err)
	assert.Equal(t, StateRendered, result.State)
	assert.Equal(t, "Found 1 trains", result.Status)
	require.NotNil(t, result.Board)
	require.Len(t, result.Board.Arrivals, 1)
	assert.Empty(t, result.Board.Departures)

	row := result.Board.Arrivals[0]
	assert.Equal(t, "IC 27", row.TrainName)
	assert.Equal(t, "Helsinki", row.Origin)
	assert.Equal(t, "Tampere", row.Destination)
	assert.Equal(t, "10.30", row.Scheduled)
	assert.Equal(t, "+4 min", row.Diff)

	require.Len(t, history.records, 1)
	assert.Equal(t, models.QueryRendered, history.records[0].Outcome)
	assert.Equal(t, 1, history.records[0].Arrivals)
	assert.Equal(t, []int{4}, history.delays["RI"])
}

func TestFetch_NoTrains(t *testing.T) {
	history := &fakeHistory{}
	v := newTestViewer(&fakeTrains{}, history)

	result, err := v.Fetch(context.Background(), "HKI")
	require.NoError(t, err)
	assert.Equal(t, StateStatus, result.State)
	assert.Equal(t, "No trains currently.", result.Status)
	assert.Nil(t, result.Board)

	require.Len(t, history.records, 1)
	assert.Equal(t, models.QueryNoTrains, history.records[0].Outcome)
}

func TestFetch_FailureReportsStatus(t *testing.T) {
	upstream := errors.New("connection refused")
	history := &fakeHistory{}
	v := newTestViewer(&fakeTrains{err: upstream}, history)

	result, err := v.Fetch(context.Background(), "HKI")
	require.ErrorIs(t, err, upstream)
	assert.True(t, IsFetchFailure(err))
	assert.Equal(t, "Fetch failed.", result.Status)
	assert.Nil(t, result.Board)

	require.Len(t, history.records, 1)
	assert.Equal(t, models.QueryFailed, history.records[0].Outcome)
	require.NotNil(t, history.records[0].Error)
	assert.Contains(t, *history.records[0].Error, "connection refused")
}

func TestFetch_HistoryErrorsAreSwallowed(t *testing.T) {
	src := &fakeTrains{trains: map[string][]models.Train{"RI": {riTrain()}}}
	v := newTestViewer(src, &fakeHistory{err: errors.New("disk full")})

	result, err := v.Fetch(context.Background(), "RI")
	require.NoError(t, err)
	assert.Equal(t, StateRendered, result.State)
}

func TestIsFetchFailure(t *testing.T) {
	assert.False(t, IsFetchFailure(nil))
	assert.False(t, IsFetchFailure(ErrNoStation))
	assert.False(t, IsFetchFailure(ErrStale))
	assert.True(t, IsFetchFailure(errors.New("boom")))
}

func TestSession_ClearsBeforeRequest(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeTrains{
		trains: map[string][]models.Train{"RI": {riTrain()}},
		gates:  map[string]chan struct{}{"RI": gate},
	}
	s := NewSession(newTestViewer(src, nil))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Show(context.Background(), "RI")
	}()

	require.Eventually(t, func() bool {
		return s.Current().Status == "Fetching station data…"
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, s.Current().Board)

	close(gate)
	<-done
	assert.Equal(t, StateRendered, s.Current().State)
}

func TestSession_DiscardsStaleResult(t *testing.T) {
	slow := make(chan struct{})
	src := &fakeTrains{
		trains: map[string][]models.Train{"RI": {riTrain()}},
		gates:  map[string]chan struct{}{"HKI": slow},
	}
	s := NewSession(newTestViewer(src, nil))

	staleErr := make(chan error, 1)
	go func() {
		_, err := s.Show(context.Background(), "HKI")
		staleErr <- err
	}()

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return len(src.calls) == 1
	}, time.Second, 5*time.Millisecond)

	result, err := s.Show(context.Background(), "RI")
	require.NoError(t, err)
	assert.Equal(t, StateRendered, result.State)

	// The older request completes last and must not replace the screen
	close(slow)
	require.ErrorIs(t, <-staleErr, ErrStale)

	current := s.Current()
	require.NotNil(t, current.Board)
	assert.Equal(t, "RI", current.Board.StationCode)
}

func TestSession_EmptyStationKeepsScreen(t *testing.T) {
	src := &fakeTrains{trains: map[string][]models.Train{"RI": {riTrain()}}}
	s := NewSession(newTestViewer(src, nil))

	_, err := s.Show(context.Background(), "RI")
	require.NoError(t, err)

	result, err := s.Show(context.Background(), "")
	require.ErrorIs(t, err, ErrNoStation)
	assert.Equal(t, "Select a station.", result.Status)
	assert.Equal(t, StateRendered, s.Current().State)
}
