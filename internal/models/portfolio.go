package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingView is one position joined with its live quote. When no quote is
// available the average cost stands in for the current price and Stale is set.
type HoldingView struct {
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	InvestedValue decimal.Decimal `json:"invested_value"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	ReturnPct     decimal.Decimal `json:"return_pct"`
	Stale         bool            `json:"stale"`
}

// PortfolioSummary aggregates all holdings of a user. RealizedPnL is summed
// from the trade log, not recomputed from positions.
type PortfolioSummary struct {
	Invested      decimal.Decimal `json:"invested"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
}

// AllocationEntry is one symbol's share of total current value.
type AllocationEntry struct {
	Symbol       string          `json:"symbol"`
	CurrentValue decimal.Decimal `json:"current_value"`
	WeightPct    decimal.Decimal `json:"weight_pct"`
}

// Snapshot records a user's total portfolio value (holdings + cash) at a
// point in time, for history charts.
type Snapshot struct {
	ID             string          `json:"id" badgerhold:"key"`
	UserID         string          `json:"user_id" badgerhold:"index"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	Timestamp      time.Time       `json:"timestamp"`
}
