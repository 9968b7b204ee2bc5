package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

func setupTestStore(t *testing.T) *PostgresStore {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	store, err := NewPostgresStore(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return store
}

func TestPostgresStore_RecordAndRead(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	station := "T" + time.Now().Format("150405")
	id, err := store.RecordQuery(ctx, models.QueryRecord{
		StationCode: station,
		Outcome:     models.QueryRendered,
		TrainCount:  3,
		Arrivals:    1,
		Departures:  2,
	})
	if err != nil {
		t.Fatalf("RecordQuery failed: %v", err)
	}

	records, err := store.RecentQueries(ctx, station, 5)
	if err != nil {
		t.Fatalf("RecentQueries failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != id {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].Departures != 2 {
		t.Errorf("Departures = %d", records[0].Departures)
	}
}

func TestPostgresStore_DelayStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	station := "D" + time.Now().Format("150405")
	if err := store.UpdateDelayStats(ctx, station, []int{1, 3}, time.Now()); err != nil {
		t.Fatalf("UpdateDelayStats failed: %v", err)
	}

	stats, err := store.HourlyDelayStats(ctx, station, 2)
	if err != nil {
		t.Fatalf("HourlyDelayStats failed: %v", err)
	}
	if len(stats) != 1 || stats[0].ObservationCount != 2 || stats[0].MeanDelayMinutes != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
