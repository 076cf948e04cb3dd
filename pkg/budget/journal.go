package budget

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hearsay-ai/hearsay/pkg/models"
)

// Journal persists committed charges in SQLite so spend accumulates across
// process restarts within one budget period.
type Journal struct {
	db *sql.DB
}

const createChargeTable = `
CREATE TABLE IF NOT EXISTS charge_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL,
	endpoint_class TEXT NOT NULL,
	units INTEGER NOT NULL,
	cost REAL NOT NULL,
	simulated INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_charge_class_time ON charge_log(endpoint_class, created_at);
`

// OpenJournal opens (creating if needed) the charge journal at dbPath.
func OpenJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	if _, err := db.Exec(createChargeTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger db: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one committed charge.
func (j *Journal) Record(ctx context.Context, rec models.ChargeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO charge_log (fingerprint, endpoint_class, units, cost, simulated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Fingerprint, rec.EndpointClass, rec.Units, rec.Cost, rec.Simulated, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record charge: %w", err)
	}
	return nil
}

// Totals returns the sum of units and cost across all recorded charges.
func (j *Journal) Totals(ctx context.Context) (int64, float64, error) {
	var units int64
	var cost float64
	err := j.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(units), 0), COALESCE(SUM(cost), 0) FROM charge_log`,
	).Scan(&units, &cost)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger totals: %w", err)
	}
	return units, cost, nil
}

// SpendByClass aggregates charges per endpoint class.
func (j *Journal) SpendByClass(ctx context.Context) ([]models.ClassSpend, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT endpoint_class, COUNT(*), SUM(units), SUM(cost)
		 FROM charge_log GROUP BY endpoint_class ORDER BY endpoint_class`,
	)
	if err != nil {
		return nil, fmt.Errorf("spend by class: %w", err)
	}
	defer rows.Close()

	var spends []models.ClassSpend
	for rows.Next() {
		var s models.ClassSpend
		if err := rows.Scan(&s.EndpointClass, &s.ChargeCount, &s.TotalUnits, &s.TotalCost); err != nil {
			return nil, fmt.Errorf("scan spend: %w", err)
		}
		spends = append(spends, s)
	}
	return spends, rows.Err()
}

// Reset deletes every recorded charge, starting a new budget period.
func (j *Journal) Reset(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `DELETE FROM charge_log`)
	if err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}
