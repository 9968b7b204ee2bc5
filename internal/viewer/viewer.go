package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/digitraffic"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/logger"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/schedule"
)

// Result states
const (
	StateStatus   = "status"
	StateRendered = "rendered"
)

// ErrNoStation is returned when a fetch is triggered without a selected station
var ErrNoStation = digitraffic.ErrNoStation

// TrainSource fetches the live trains of one station
type TrainSource interface {
	LiveTrains(ctx context.Context, stationCode string) ([]models.Train, error)
}

// HistoryRecorder persists fetch actions and delay observations
type HistoryRecorder interface {
	RecordQuery(ctx context.Context, rec models.QueryRecord) (string, error)
	UpdateDelayStats(ctx context.Context, stationCode string, delays []int, observedAt time.Time) error
}

// Result is what the screen shows after a fetch action: either only a status
// line, or a status line and a board
type Result struct {
	State  string               `json:"state"`
	Status string               `json:"status"`
	Board  *models.StationBoard `json:"board,omitempty"`
}

// Options configures a Viewer
type Options struct {
	Trains    TrainSource
	Lookup    schedule.Lookup
	Formatter schedule.Formatter
	Labels    config.Labels
	History   HistoryRecorder // optional
	Logger    logger.Logger
}

// Viewer runs the fetch, transform pipeline for one station at a time
type Viewer struct {
	trains    TrainSource
	lookup    schedule.Lookup
	formatter schedule.Formatter
	labels    config.Labels
	history   HistoryRecorder
	log       logger.Logger
	now       func() time.Time
}

// New creates a Viewer
func New(opts Options) *Viewer {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Viewer{
		trains:    opts.Trains,
		lookup:    opts.Lookup,
		formatter: opts.Formatter,
		labels:    opts.Labels,
		history:   opts.History,
		log:       log.With("component", "viewer"),
		now:       time.Now,
	}
}

// Labels returns the labels the viewer writes status lines with
func (v *Viewer) Labels() config.Labels {
	return v.labels
}

// Fetch requests the live schedule of stationCode and transforms it.
//
// The returned Result is always displayable. The error is non-nil when no
// station was given (ErrNoStation, no request is made) or the fetch failed.
// Zero trains is not an error.
func (v *Viewer) Fetch(ctx context.Context, stationCode string) (Result, error) {
	if stationCode == "" {
		return Result{State: StateStatus, Status: v.labels.StatusSelect}, ErrNoStation
	}

	start := v.now()
	trains, err := v.trains.LiveTrains(ctx, stationCode)
	if err != nil {
		v.log.Error("Schedule fetch failed", "station", stationCode, "error", err)
		v.record(ctx, stationCode, start, models.QueryRecord{Outcome: models.QueryFailed}, err)
		return Result{State: StateStatus, Status: v.labels.StatusFetchFailed}, fmt.Errorf("failed to fetch schedule for %s: %w", stationCode, err)
	}

	if len(trains) == 0 {
		v.log.Info("No trains for station", "station", stationCode)
		v.record(ctx, stationCode, start, models.QueryRecord{Outcome: models.QueryNoTrains}, nil)
		return Result{State: StateStatus, Status: v.labels.StatusNoTrains}, nil
	}

	board := schedule.Transform(trains, stationCode, v.lookup, v.formatter)
	board.FetchedAt = v.now().UTC()

	v.log.Debug("Schedule fetched",
		"station", stationCode,
		"trains", len(trains),
		"arrivals", len(board.Arrivals),
		"departures", len(board.Departures),
	)

	v.record(ctx, stationCode, start, models.QueryRecord{
		Outcome:    models.QueryRendered,
		TrainCount: len(trains),
		Arrivals:   len(board.Arrivals),
		Departures: len(board.Departures),
	}, nil)
	v.observeDelays(ctx, board)

	return Result{
		State:  StateRendered,
		Status: fmt.Sprintf(v.labels.StatusFound, len(trains)),
		Board:  &board,
	}, nil
}

// record stores the fetch action; history failures never reach the user
func (v *Viewer) record(ctx context.Context, stationCode string, start time.Time, rec models.QueryRecord, fetchErr error) {
	if v.history == nil {
		return
	}

	rec.StationCode = stationCode
	rec.QueriedAt = start
	rec.DurationMs = v.now().Sub(start).Milliseconds()
	if fetchErr != nil {
		msg := fetchErr.Error()
		rec.Error = &msg
	}

	if _, err := v.history.RecordQuery(context.WithoutCancel(ctx), rec); err != nil {
		v.log.Warn("Failed to record query", "station", stationCode, "error", err)
	}
}

func (v *Viewer) observeDelays(ctx context.Context, board models.StationBoard) {
	if v.history == nil {
		return
	}
	delays := board.DelayObservations()
	if len(delays) == 0 {
		return
	}
	if err := v.history.UpdateDelayStats(context.WithoutCancel(ctx), board.StationCode, delays, board.FetchedAt); err != nil {
		v.log.Warn("Failed to update delay stats", "station", board.StationCode, "error", err)
	}
}

// IsFetchFailure reports whether err came from the upstream API rather than user input
func IsFetchFailure(err error) bool {
	return err != nil && !errors.Is(err, ErrNoStation) && !errors.Is(err, ErrStale)
}
