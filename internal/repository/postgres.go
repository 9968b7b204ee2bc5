package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/metrics"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS station_queries (
	query_id       UUID PRIMARY KEY,
	station_code   TEXT NOT NULL,
	outcome        TEXT NOT NULL,
	train_count    INTEGER NOT NULL DEFAULT 0,
	arrivals       INTEGER NOT NULL DEFAULT 0,
	departures     INTEGER NOT NULL DEFAULT 0,
	duration_ms    BIGINT NOT NULL DEFAULT 0,
	error          TEXT,
	queried_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_station_queries_queried_at ON station_queries (queried_at);

CREATE TABLE IF NOT EXISTS stats_delay_hourly (
	station_code        TEXT NOT NULL,
	hour_bucket         TIMESTAMPTZ NOT NULL,
	observation_count   INTEGER NOT NULL,
	delay_mean_minutes  DOUBLE PRECISION NOT NULL,
	delay_m2            DOUBLE PRECISION NOT NULL,
	delayed_count       INTEGER NOT NULL,
	on_time_count       INTEGER NOT NULL,
	max_delay_minutes   INTEGER NOT NULL,
	PRIMARY KEY (station_code, hour_bucket)
);
`

// PostgresStore keeps query history and delay statistics in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and verifies the connection
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (r *PostgresStore) Close() error {
	r.pool.Close()
	return nil
}

// Ping checks the database connection
func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// EnsureSchema creates tables if they don't exist
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// RecordQuery stores one fetch action. A missing ID is generated.
func (r *PostgresStore) RecordQuery(ctx context.Context, rec models.QueryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.QueriedAt.IsZero() {
		rec.QueriedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO station_queries (
			query_id, station_code, outcome, train_count, arrivals, departures,
			duration_ms, error, queried_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.StationCode, rec.Outcome, rec.TrainCount, rec.Arrivals, rec.Departures,
		rec.DurationMs, rec.Error, rec.QueriedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record query: %w", err)
	}

	return rec.ID, nil
}

// RecentQueries returns the newest fetch actions first, optionally for one station
func (r *PostgresStore) RecentQueries(ctx context.Context, stationCode string, limit int) ([]models.QueryRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT query_id::text, station_code, outcome, train_count, arrivals, departures,
			duration_ms, error, queried_at
		FROM station_queries
		WHERE ($1 = '' OR station_code = $1)
		ORDER BY queried_at DESC
		LIMIT $2
	`, stationCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := []models.QueryRecord{}
	for rows.Next() {
		var rec models.QueryRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.StationCode,
			&rec.Outcome,
			&rec.TrainCount,
			&rec.Arrivals,
			&rec.Departures,
			&rec.DurationMs,
			&rec.Error,
			&rec.QueriedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return records, nil
}

// UpdateDelayStats folds delay observations (minutes) into the station's hourly aggregate
func (r *PostgresStore) UpdateDelayStats(ctx context.Context, stationCode string, delays []int, observedAt time.Time) error {
	if stationCode == "" || len(delays) == 0 {
		return nil
	}
	bucket := observedAt.UTC().Truncate(time.Hour)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var stats metrics.DelayStats
	err = tx.QueryRow(ctx, `
		SELECT observation_count, delay_mean_minutes, delay_m2,
			delayed_count, on_time_count, max_delay_minutes
		FROM stats_delay_hourly
		WHERE station_code = $1 AND hour_bucket = $2
		FOR UPDATE
	`, stationCode, bucket).Scan(&stats.Count, &stats.Mean, &stats.M2, &stats.DelayedCount, &stats.OnTimeCount, &stats.MaxDelay)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read delay stats for %s: %w", stationCode, err)
	}

	for _, d := range delays {
		stats.Observe(d)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stats_delay_hourly (station_code, hour_bucket, observation_count,
			delay_mean_minutes, delay_m2, delayed_count, on_time_count, max_delay_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (station_code, hour_bucket) DO UPDATE SET
			observation_count = EXCLUDED.observation_count,
			delay_mean_minutes = EXCLUDED.delay_mean_minutes,
			delay_m2 = EXCLUDED.delay_m2,
			delayed_count = EXCLUDED.delayed_count,
			on_time_count = EXCLUDED.on_time_count,
			max_delay_minutes = EXCLUDED.max_delay_minutes
	`, stationCode, bucket, stats.Count, stats.Mean, stats.M2, stats.DelayedCount, stats.OnTimeCount, stats.MaxDelay)
	if err != nil {
		return fmt.Errorf("failed to upsert delay stats for %s: %w", stationCode, err)
	}

	return tx.Commit(ctx)
}

// HourlyDelayStats returns the hourly aggregates of the last hours, newest first
func (r *PostgresStore) HourlyDelayStats(ctx context.Context, stationCode string, hours int) ([]models.DelayHourlyStat, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour).Truncate(time.Hour)

	rows, err := r.pool.Query(ctx, `
		SELECT station_code, hour_bucket, observation_count, delay_mean_minutes, delay_m2,
			delayed_count, on_time_count, max_delay_minutes
		FROM stats_delay_hourly
		WHERE hour_bucket >= $1 AND ($2 = '' OR station_code = $2)
		ORDER BY hour_bucket DESC, station_code
	`, cutoff, stationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query delay stats: %w", err)
	}
	defer rows.Close()

	result := []models.DelayHourlyStat{}
	for rows.Next() {
		var code string
		var bucket time.Time
		var stats metrics.DelayStats
		if err := rows.Scan(&code, &bucket, &stats.Count, &stats.Mean, &stats.M2,
			&stats.DelayedCount, &stats.OnTimeCount, &stats.MaxDelay); err != nil {
			return nil, fmt.Errorf("failed to scan delay stats: %w", err)
		}
		result = append(result, models.DelayHourlyStat{
			StationCode:      code,
			HourBucket:       bucket.UTC().Format(time.RFC3339),
			ObservationCount: stats.Count,
			MeanDelayMinutes: stats.Mean,
			StdDevMinutes:    stats.StdDev(),
			OnTimePercent:    stats.OnTimePercent(),
			MaxDelayMinutes:  stats.MaxDelay,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delay stats: %w", err)
	}

	return result, nil
}

// Cleanup deletes history older than the retention duration
func (r *PostgresStore) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	if retention < time.Hour {
		retention = time.Hour
	}
	cutoff := time.Now().UTC().Add(-retention)

	total := 0
	for _, q := range []string{
		"DELETE FROM station_queries WHERE queried_at < $1",
		"DELETE FROM stats_delay_hourly WHERE hour_bucket < date_trunc('hour', $1::timestamptz)",
	} {
		tag, err := r.pool.Exec(ctx, q, cutoff)
		if err != nil {
			return total, fmt.Errorf("failed to cleanup history: %w", err)
		}
		total += int(tag.RowsAffected())
	}
	return total, nil
}
