package db

import (
	"context"
	"fmt"
	"time"
)

// Cleanup deletes history older than the retention duration and returns the
// number of deleted rows
func (db *DB) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	if retention < time.Hour {
		retention = time.Hour
	}
	cutoff := time.Now().Add(-retention)

	queries := []struct {
		name  string
		query string
		arg   string
	}{
		{
			name:  "station_queries",
			query: "DELETE FROM station_queries WHERE queried_at_utc < ?",
			arg:   formatTime(cutoff),
		},
		{
			name:  "stats_delay_hourly",
			query: "DELETE FROM stats_delay_hourly WHERE hour_bucket < ?",
			arg:   hourBucket(cutoff),
		},
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	totalDeleted := 0
	for _, q := range queries {
		result, err := db.conn.ExecContext(ctx, q.query, q.arg)
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to cleanup %s: %w", q.name, err)
		}
		rows, _ := result.RowsAffected()
		totalDeleted += int(rows)
	}

	return totalDeleted, nil
}
