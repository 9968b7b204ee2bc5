package db

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Connect(filepath.Join(t.TempDir(), "history", "test.db"))
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return database
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	database := openTestDB(t)
	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Errorf("second EnsureSchema failed: %v", err)
	}
	if err := database.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestRecordQuery_RoundTrip(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)

	failure := "live-trains returned status 500"
	records := []models.QueryRecord{
		{StationCode: "HKI", Outcome: models.QueryRendered, TrainCount: 12, Arrivals: 5, Departures: 6, DurationMs: 140, QueriedAt: base},
		{StationCode: "TPE", Outcome: models.QueryFailed, Error: &failure, QueriedAt: base.Add(time.Minute)},
		{StationCode: "HKI", Outcome: models.QueryNoTrains, QueriedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		id, err := database.RecordQuery(ctx, rec)
		if err != nil {
			t.Fatalf("RecordQuery failed: %v", err)
		}
		if id == "" {
			t.Error("RecordQuery should generate an ID")
		}
	}

	all, err := database.RecentQueries(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentQueries failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, expected 3", len(all))
	}
	if all[0].Outcome != models.QueryNoTrains || all[2].Outcome != models.QueryRendered {
		t.Errorf("records should be newest first: %+v", all)
	}
	if all[1].Error == nil || *all[1].Error != failure {
		t.Errorf("error text not preserved: %+v", all[1])
	}
	if !all[2].QueriedAt.Equal(base) {
		t.Errorf("QueriedAt = %v, expected %v", all[2].QueriedAt, base)
	}
	if all[2].TrainCount != 12 || all[2].Arrivals != 5 || all[2].Departures != 6 {
		t.Errorf("counts not preserved: %+v", all[2])
	}

	hki, err := database.RecentQueries(ctx, "HKI", 1)
	if err != nil {
		t.Fatalf("RecentQueries failed: %v", err)
	}
	if len(hki) != 1 || hki[0].StationCode != "HKI" || hki[0].Outcome != models.QueryNoTrains {
		t.Errorf("station filter with limit: %+v", hki)
	}
}

func TestUpdateDelayStats_AccumulatesPerHour(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	if err := database.UpdateDelayStats(ctx, "HKI", []int{0, 2, 10}, now); err != nil {
		t.Fatalf("UpdateDelayStats failed: %v", err)
	}
	if err := database.UpdateDelayStats(ctx, "HKI", []int{-2}, now); err != nil {
		t.Fatalf("UpdateDelayStats failed: %v", err)
	}
	if err := database.UpdateDelayStats(ctx, "TPE", []int{4}, now); err != nil {
		t.Fatalf("UpdateDelayStats failed: %v", err)
	}
	// No-ops
	if err := database.UpdateDelayStats(ctx, "HKI", nil, now); err != nil {
		t.Fatalf("UpdateDelayStats with no delays failed: %v", err)
	}

	stats, err := database.HourlyDelayStats(ctx, "HKI", 24)
	if err != nil {
		t.Fatalf("HourlyDelayStats failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d buckets, expected 1", len(stats))
	}

	s := stats[0]
	if s.ObservationCount != 4 {
		t.Errorf("ObservationCount = %d", s.ObservationCount)
	}
	if math.Abs(s.MeanDelayMinutes-2.5) > 1e-9 {
		t.Errorf("MeanDelayMinutes = %v, expected 2.5", s.MeanDelayMinutes)
	}
	if s.MaxDelayMinutes != 10 {
		t.Errorf("MaxDelayMinutes = %d", s.MaxDelayMinutes)
	}
	if s.OnTimePercent != 75 {
		t.Errorf("OnTimePercent = %v, expected 75", s.OnTimePercent)
	}

	all, err := database.HourlyDelayStats(ctx, "", 24)
	if err != nil {
		t.Fatalf("HourlyDelayStats failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d buckets across stations, expected 2", len(all))
	}
}

func TestCleanup_RemovesOldRows(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	if _, err := database.RecordQuery(ctx, models.QueryRecord{StationCode: "HKI", Outcome: models.QueryRendered, QueriedAt: old}); err != nil {
		t.Fatal(err)
	}
	if _, err := database.RecordQuery(ctx, models.QueryRecord{StationCode: "HKI", Outcome: models.QueryRendered}); err != nil {
		t.Fatal(err)
	}
	if err := database.UpdateDelayStats(ctx, "HKI", []int{1}, old); err != nil {
		t.Fatal(err)
	}

	deleted, err := database.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, expected 2", deleted)
	}

	remaining, _ := database.RecentQueries(ctx, "", 10)
	if len(remaining) != 1 {
		t.Errorf("remaining = %d, expected 1", len(remaining))
	}
}
