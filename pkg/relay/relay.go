// Package relay is the façade the rest of the platform calls to reach
// costly, rate-limited external services. Every request flows cache →
// budget → pacing → network in that order, so a cached result costs
// nothing, a doomed request is rejected before it waits, and a real call
// is spaced, paid for, and remembered.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/hearsay-ai/hearsay/pkg/audit"
	"github.com/hearsay-ai/hearsay/pkg/budget"
	"github.com/hearsay-ai/hearsay/pkg/cache"
	"github.com/hearsay-ai/hearsay/pkg/logging"
	"github.com/hearsay-ai/hearsay/pkg/metrics"
	"github.com/hearsay-ai/hearsay/pkg/models"
	"github.com/hearsay-ai/hearsay/pkg/pacing"
)

// Outcome is what a Producer returns: the payload to cache and the units
// (for example tokens) the call actually consumed.
type Outcome struct {
	Payload []byte
	Units   int64
}

// Producer performs the real external call. In simulation mode the caller
// injects a synthetic producer instead; the relay treats both identically.
type Producer func(ctx context.Context) (*Outcome, error)

// SyntheticProducer returns a Producer that yields a fixed payload without
// any network activity, for simulation mode and dry runs.
func SyntheticProducer(payload []byte, units int64) Producer {
	return func(context.Context) (*Outcome, error) {
		return &Outcome{Payload: payload, Units: units}, nil
	}
}

// Request describes one orchestrated call.
type Request struct {
	// Fingerprint is the opaque cache/ledger key for the request's
	// semantic inputs (see cache.Fingerprint).
	Fingerprint string
	// EndpointClass names the pacing class of the upstream provider.
	EndpointClass string
	// CostEstimate is the cost in ledger units charged on success.
	CostEstimate float64
	// Producer performs the call on a cache miss.
	Producer Producer
}

// Result is the payload returned to the caller, with provenance.
type Result struct {
	Payload []byte
	Cached  bool
}

// Relay orchestrates cache, budget, pacing, and the call log around
// producer invocations.
type Relay struct {
	cache  cache.Store
	ledger *budget.Ledger
	gate   *pacing.Gate
	log    *audit.Log
}

// New wires a Relay. The audit log may be nil.
func New(c cache.Store, l *budget.Ledger, g *pacing.Gate, callLog *audit.Log) *Relay {
	return &Relay{cache: c, ledger: l, gate: g, log: callLog}
}

// Execute runs one request through the core. A cache hit returns without
// touching the budget or advancing pacing. A miss is budget-checked before
// it is allowed to wait, paced, then produced; only a successful producer
// charges the ledger and populates the cache. A failed producer propagates
// its error unchanged with no charge and no cache write.
func (r *Relay) Execute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if payload, ok := r.cache.Get(req.Fingerprint); ok {
		r.gate.Skip(req.EndpointClass)
		metrics.CallsTotal.WithLabelValues(req.EndpointClass, models.CallStatusCacheHit).Inc()
		r.record(ctx, req, models.CallRecord{Status: models.CallStatusCacheHit, CacheHit: true}, start)
		return &Result{Payload: payload, Cached: true}, nil
	}

	if r.ledger.WouldExceed(req.CostEstimate) {
		metrics.CallsTotal.WithLabelValues(req.EndpointClass, models.CallStatusRejected).Inc()
		r.record(ctx, req, models.CallRecord{Status: models.CallStatusRejected}, start)
		return nil, fmt.Errorf("execute %s: %w", req.EndpointClass, budget.ErrBudgetExceeded)
	}

	if err := r.gate.Await(ctx, req.EndpointClass); err != nil {
		return nil, err
	}

	outcome, err := req.Producer(ctx)
	if err != nil {
		metrics.CallsTotal.WithLabelValues(req.EndpointClass, models.CallStatusError).Inc()
		r.record(ctx, req, models.CallRecord{Status: models.CallStatusError, Error: err.Error()}, start)
		return nil, err
	}

	chargeErr := r.ledger.Charge(ctx, models.ChargeRecord{
		Fingerprint:   req.Fingerprint,
		EndpointClass: req.EndpointClass,
		Units:         outcome.Units,
		Cost:          req.CostEstimate,
	})
	if chargeErr != nil {
		// The spend already happened; a concurrent charge won the race
		// between the pre-check and the commit. Surface it, keep the result.
		metrics.Warnings.WithLabelValues("relay").Inc()
		logging.For("relay").Warn("post-call charge rejected",
			"endpoint_class", req.EndpointClass, "error", chargeErr)
	}

	_ = r.cache.Set(req.Fingerprint, outcome.Payload)

	metrics.CallsTotal.WithLabelValues(req.EndpointClass, models.CallStatusSuccess).Inc()
	r.record(ctx, req, models.CallRecord{
		Status: models.CallStatusSuccess,
		Units:  outcome.Units,
		Cost:   req.CostEstimate,
	}, start)

	return &Result{Payload: outcome.Payload}, nil
}

func (r *Relay) record(ctx context.Context, req Request, rec models.CallRecord, start time.Time) {
	if r.log == nil {
		return
	}
	rec.Fingerprint = req.Fingerprint
	rec.EndpointClass = req.EndpointClass
	rec.Simulated = r.ledger.Simulated()
	rec.LatencyMs = time.Since(start).Milliseconds()
	if err := r.log.Record(ctx, rec); err != nil {
		metrics.Warnings.WithLabelValues("relay").Inc()
		logging.For("relay").Warn("call log write failed", "error", err)
	}
}
