package models

import "time"

// Call outcome statuses recorded in the call log.
const (
	CallStatusSuccess  = "success"
	CallStatusError    = "error"
	CallStatusRejected = "rejected"
	CallStatusCacheHit = "cache_hit"
)

// CallRecord is one orchestrated external call, cached or real.
type CallRecord struct {
	ID            int64     `json:"id"`
	Fingerprint   string    `json:"fingerprint"`
	EndpointClass string    `json:"endpoint_class"`
	Status        string    `json:"status"`
	CacheHit      bool      `json:"cache_hit"`
	Simulated     bool      `json:"simulated"`
	Units         int64     `json:"units"`
	Cost          float64   `json:"cost"`
	Error         string    `json:"error,omitempty"`
	LatencyMs     int64     `json:"latency_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// CallQueryOpts specifies filters for querying the call log.
type CallQueryOpts struct {
	Fingerprint   string
	EndpointClass string
	Status        string
	Since         time.Time
	Limit         int
}

// CallStat holds aggregate call counts for an endpoint class and day.
type CallStat struct {
	EndpointClass string
	Day           string
	Count         int64
	CacheHits     int64
	TotalCost     float64
}
