package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/metrics"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// UpdateDelayStats folds delay observations (minutes) into the station's hourly
// aggregate for the hour of observedAt
func (db *DB) UpdateDelayStats(ctx context.Context, stationCode string, delays []int, observedAt time.Time) error {
	if stationCode == "" || len(delays) == 0 {
		return nil
	}

	bucket := hourBucket(observedAt)

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stats metrics.DelayStats
	err = tx.QueryRowContext(ctx, `
		SELECT observation_count, delay_mean_minutes, delay_m2,
			delayed_count, on_time_count, max_delay_minutes
		FROM stats_delay_hourly
		WHERE station_code = ? AND hour_bucket = ?
	`, stationCode, bucket).Scan(&stats.Count, &stats.Mean, &stats.M2, &stats.DelayedCount, &stats.OnTimeCount, &stats.MaxDelay)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read delay stats for %s: %w", stationCode, err)
	}

	for _, d := range delays {
		stats.Observe(d)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stats_delay_hourly (station_code, hour_bucket, observation_count,
			delay_mean_minutes, delay_m2, delayed_count, on_time_count, max_delay_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (station_code, hour_bucket) DO UPDATE SET
			observation_count = excluded.observation_count,
			delay_mean_minutes = excluded.delay_mean_minutes,
			delay_m2 = excluded.delay_m2,
			delayed_count = excluded.delayed_count,
			on_time_count = excluded.on_time_count,
			max_delay_minutes = excluded.max_delay_minutes
	`, stationCode, bucket, stats.Count, stats.Mean, stats.M2, stats.DelayedCount, stats.OnTimeCount, stats.MaxDelay)
	if err != nil {
		return fmt.Errorf("failed to upsert delay stats for %s: %w", stationCode, err)
	}

	return tx.Commit()
}

// HourlyDelayStats returns the hourly aggregates of the last hours, newest first
func (db *DB) HourlyDelayStats(ctx context.Context, stationCode string, hours int) ([]models.DelayHourlyStat, error) {
	cutoff := hourBucket(time.Now().Add(-time.Duration(hours) * time.Hour))

	rows, err := db.conn.QueryContext(ctx, `
		SELECT station_code, hour_bucket, observation_count, delay_mean_minutes, delay_m2,
			delayed_count, on_time_count, max_delay_minutes
		FROM stats_delay_hourly
		WHERE hour_bucket >= ? AND (? = '' OR station_code = ?)
		ORDER BY hour_bucket DESC, station_code
	`, cutoff, stationCode, stationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query delay stats: %w", err)
	}
	defer rows.Close()

	result := []models.DelayHourlyStat{}
	for rows.Next() {
		var code, bucket string
		var stats metrics.DelayStats
		if err := rows.Scan(&code, &bucket, &stats.Count, &stats.Mean, &stats.M2,
			&stats.DelayedCount, &stats.OnTimeCount, &stats.MaxDelay); err != nil {
			return nil, fmt.Errorf("failed to scan delay stats: %w", err)
		}
		result = append(result, toHourlyStat(code, bucket, stats))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delay stats: %w", err)
	}

	return result, nil
}

func toHourlyStat(code, bucket string, stats metrics.DelayStats) models.DelayHourlyStat {
	return models.DelayHourlyStat{
		StationCode:      code,
		HourBucket:       bucket,
		ObservationCount: stats.Count,
		MeanDelayMinutes: stats.Mean,
		StdDevMinutes:    stats.StdDev(),
		OnTimePercent:    stats.OnTimePercent(),
		MaxDelayMinutes:  stats.MaxDelay,
	}
}
