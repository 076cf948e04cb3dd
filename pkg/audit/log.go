// Package audit records every orchestrated external call, cached or real,
// in a dedicated SQLite log so operators can reconstruct what was spent
// where and verify the core degraded safely.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Log writes and queries call records in a dedicated SQLite database.
type Log struct {
	db            *sql.DB
	retentionDays int
	done          chan struct{}
	wg            sync.WaitGroup
}

const createCallTable = `
CREATE TABLE IF NOT EXISTS call_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL,
	endpoint_class TEXT NOT NULL,
	status TEXT NOT NULL,
	cache_hit INTEGER NOT NULL DEFAULT 0,
	simulated INTEGER NOT NULL DEFAULT 0,
	units INTEGER NOT NULL DEFAULT 0,
	cost REAL NOT NULL DEFAULT 0,
	error TEXT,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_call_class ON call_log(endpoint_class);
CREATE INDEX IF NOT EXISTS idx_call_created ON call_log(created_at);
CREATE INDEX IF NOT EXISTS idx_call_fingerprint ON call_log(fingerprint);
`

// New opens the call log database and starts the retention sweeper.
// retentionDays <= 0 disables retention.
func New(dbPath string, retentionDays int) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open call log db: %w", err)
	}

	if _, err := db.Exec(createCallTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate call log db: %w", err)
	}

	l := &Log{
		db:            db,
		retentionDays: retentionDays,
		done:          make(chan struct{}),
	}

	if retentionDays > 0 {
		l.wg.Add(1)
		go l.retentionLoop()
	}

	return l, nil
}

// Record inserts one call record.
func (l *Log) Record(ctx context.Context, rec models.CallRecord) error {
	if l == nil || l.db == nil {
		return nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO call_log
		 (fingerprint, endpoint_class, status, cache_hit, simulated, units, cost, error, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Fingerprint, rec.EndpointClass, rec.Status, rec.CacheHit, rec.Simulated,
		rec.Units, rec.Cost, rec.Error, rec.LatencyMs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record call: %w", err)
	}
	return nil
}

// Query returns call records matching the given options, newest first.
func (l *Log) Query(ctx context.Context, opts models.CallQueryOpts) ([]models.CallRecord, error) {
	q := `SELECT id, fingerprint, endpoint_class, status, cache_hit, simulated,
		units, cost, COALESCE(error, ''), latency_ms, created_at
		FROM call_log WHERE 1=1`
	var args []any

	if opts.Fingerprint != "" {
		q += " AND fingerprint = ?"
		args = append(args, opts.Fingerprint)
	}
	if opts.EndpointClass != "" {
		q += " AND endpoint_class = ?"
		args = append(args, opts.EndpointClass)
	}
	if opts.Status != "" {
		q += " AND status = ?"
		args = append(args, opts.Status)
	}
	if !opts.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, opts.Since)
	}

	q += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query call log: %w", err)
	}
	defer rows.Close()

	var records []models.CallRecord
	for rows.Next() {
		var r models.CallRecord
		if err := rows.Scan(&r.ID, &r.Fingerprint, &r.EndpointClass, &r.Status,
			&r.CacheHit, &r.Simulated, &r.Units, &r.Cost, &r.Error,
			&r.LatencyMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan call row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats returns aggregate counts grouped by endpoint class and day.
func (l *Log) Stats(ctx context.Context) ([]models.CallStat, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT endpoint_class, date(created_at) as day, count(*),
			SUM(cache_hit), SUM(cost)
		 FROM call_log GROUP BY endpoint_class, day ORDER BY day DESC, endpoint_class`)
	if err != nil {
		return nil, fmt.Errorf("call log stats: %w", err)
	}
	defer rows.Close()

	var stats []models.CallStat
	for rows.Next() {
		var s models.CallStat
		var day sql.NullString
		if err := rows.Scan(&s.EndpointClass, &day, &s.Count, &s.CacheHits, &s.TotalCost); err != nil {
			return nil, fmt.Errorf("scan call stat: %w", err)
		}
		s.Day = day.String
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Cleanup deletes records older than the retention period.
func (l *Log) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)
	res, err := l.db.ExecContext(ctx, `DELETE FROM call_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("call log cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Close stops the retention goroutine and closes the database.
func (l *Log) Close() error {
	close(l.done)
	l.wg.Wait()
	return l.db.Close()
}

func (l *Log) retentionLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			_, _ = l.Cleanup(context.Background())
		}
	}
}
