package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// RecordQuery stores one fetch action. A missing ID is generated.
func (db *DB) RecordQuery(ctx context.Context, rec models.QueryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.QueriedAt.IsZero() {
		rec.QueriedAt = time.Now()
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO station_queries (
			query_id, station_code, outcome, train_count, arrivals, departures,
			duration_ms, error, queried_at_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.StationCode, rec.Outcome, rec.TrainCount, rec.Arrivals, rec.Departures,
		rec.DurationMs, rec.Error, formatTime(rec.QueriedAt))
	if err != nil {
		return "", fmt.Errorf("failed to record query: %w", err)
	}

	return rec.ID, nil
}

// RecentQueries returns the newest fetch actions first, optionally for one station
func (db *DB) RecentQueries(ctx context.Context, stationCode string, limit int) ([]models.QueryRecord, error) {
	query := `
		SELECT query_id, station_code, outcome, train_count, arrivals, departures,
			duration_ms, error, queried_at_utc
		FROM station_queries
		WHERE (? = '' OR station_code = ?)
		ORDER BY queried_at_utc DESC
		LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, query, stationCode, stationCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := []models.QueryRecord{}
	for rows.Next() {
		var rec models.QueryRecord
		var queriedAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.StationCode,
			&rec.Outcome,
			&rec.TrainCount,
			&rec.Arrivals,
			&rec.Departures,
			&rec.DurationMs,
			&rec.Error,
			&queriedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.QueriedAt = parseTime(queriedAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return records, nil
}
