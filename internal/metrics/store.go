package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RequestMetric records metadata for a single handled HTTP request.
type RequestMetric struct {
	Method     string
	Path       string
	StatusCode int
	LatencyMS  int64
	Timestamp  time.Time
}

// Store handles persistence of request metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m RequestMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO request_metrics (method, path, status_code, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Method, m.Path, m.StatusCode, m.LatencyMS, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record request metric: %w", err)
	}
	return nil
}

// DailyUsage represents request totals for a single day.
type DailyUsage struct {
	Date     string `json:"date"`
	Requests int    `json:"requests"`
	Errors   int    `json:"errors"`
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.QueryContext(context.Background(),
		`SELECT date(timestamp) AS day,
		        COUNT(*),
		        SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END)
		 FROM request_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var errCount sql.NullInt64
		if err := rows.Scan(&u.Date, &u.Requests, &errCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		if errCount.Valid {
			u.Errors = int(errCount.Int64)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}
