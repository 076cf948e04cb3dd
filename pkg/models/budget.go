package models

import "time"

// BudgetStats shows current spend against the configured ceiling.
type BudgetStats struct {
	TotalUnits    int64   `json:"total_units"`
	EstimatedCost float64 `json:"estimated_cost"`
	Ceiling       float64 `json:"ceiling"`
	Remaining     float64 `json:"remaining"`
}

// ChargeRecord is one committed charge in the durable ledger journal.
type ChargeRecord struct {
	ID            int64     `json:"id"`
	Fingerprint   string    `json:"fingerprint"`
	EndpointClass string    `json:"endpoint_class"`
	Units         int64     `json:"units"`
	Cost          float64   `json:"cost"`
	Simulated     bool      `json:"simulated"`
	CreatedAt     time.Time `json:"created_at"`
}

// ClassSpend aggregates journal charges per endpoint class.
type ClassSpend struct {
	EndpointClass string  `json:"endpoint_class"`
	ChargeCount   int64   `json:"charge_count"`
	TotalUnits    int64   `json:"total_units"`
	TotalCost     float64 `json:"total_cost"`
}
