// Package budget tracks cumulative spend against a hard ceiling and refuses
// charges that would exceed it. The ceiling covers the lifetime of the
// process (or longer, when a Journal reloads prior spend) unless explicitly
// reset by an administrative action.
package budget

import (
	"context"
	"errors"
	"sync"

	"github.com/hearsay-ai/hearsay/pkg/logging"
	"github.com/hearsay-ai/hearsay/pkg/metrics"
	"github.com/hearsay-ai/hearsay/pkg/models"
)

// ErrBudgetExceeded is returned when a charge would push spend over the ceiling.
var ErrBudgetExceeded = errors.New("budget exceeded")

// Ledger is a mutex-guarded running counter of consumed units and cost.
// Charges are check-then-commit: a rejected charge has no side effect, an
// allowed one atomically advances both counters. EstimatedCost is
// monotonically non-decreasing between explicit resets.
type Ledger struct {
	mu            sync.Mutex
	totalUnits    int64
	estimatedCost float64
	ceiling       float64
	simulate      bool
	journal       *Journal
}

// New creates a Ledger with the given cost ceiling. In simulation mode the
// accounting behaves identically; substituting a synthetic producer for the
// real network call is the orchestrating caller's responsibility.
func New(ceiling float64, simulate bool) *Ledger {
	return &Ledger{ceiling: ceiling, simulate: simulate}
}

// NewWithJournal creates a Ledger seeded from the journal's recorded spend,
// so the ceiling survives process restarts. Subsequent charges are appended
// to the journal.
func NewWithJournal(ceiling float64, simulate bool, j *Journal) (*Ledger, error) {
	units, cost, err := j.Totals(context.Background())
	if err != nil {
		return nil, err
	}
	l := New(ceiling, simulate)
	l.totalUnits = units
	l.estimatedCost = cost
	l.journal = j
	return l, nil
}

// Charge validates and commits a spend of units and costEstimate. It returns
// ErrBudgetExceeded, with no side effect, when the charge would push the
// running cost strictly above the ceiling; a charge landing exactly at the
// ceiling is allowed.
func (l *Ledger) Charge(ctx context.Context, rec models.ChargeRecord) error {
	l.mu.Lock()
	if l.estimatedCost+rec.Cost > l.ceiling {
		l.mu.Unlock()
		metrics.BudgetRejections.Inc()
		return ErrBudgetExceeded
	}
	l.totalUnits += rec.Units
	l.estimatedCost += rec.Cost
	l.mu.Unlock()

	if l.journal != nil {
		rec.Simulated = l.simulate
		if err := l.journal.Record(ctx, rec); err != nil {
			metrics.Warnings.WithLabelValues("ledger").Inc()
			logging.For("ledger").Warn("journal write failed", "error", err)
		}
	}
	return nil
}

// WouldExceed reports whether a charge of costEstimate would be rejected.
// It is advisory: Charge re-checks under the lock before committing.
func (l *Ledger) WouldExceed(costEstimate float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.estimatedCost+costEstimate > l.ceiling
}

// Stats returns current spend against the ceiling.
func (l *Ledger) Stats() models.BudgetStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := l.ceiling - l.estimatedCost
	if remaining < 0 {
		remaining = 0
	}
	return models.BudgetStats{
		TotalUnits:    l.totalUnits,
		EstimatedCost: l.estimatedCost,
		Ceiling:       l.ceiling,
		Remaining:     remaining,
	}
}

// Simulated reports whether the ledger runs in non-spending simulation mode.
func (l *Ledger) Simulated() bool {
	return l.simulate
}

// Reset clears the running counters and, when a journal is attached, its
// recorded charges. This is an explicit administrative action starting a new
// budget period, not part of normal operation.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	l.totalUnits = 0
	l.estimatedCost = 0
	l.mu.Unlock()

	if l.journal != nil {
		return l.journal.Reset(ctx)
	}
	return nil
}
