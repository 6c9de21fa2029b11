package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WatchlistTrigger is a user-set price threshold pair on one symbol.
// Unique per (user, symbol). Either limit may be unset.
type WatchlistTrigger struct {
	Key        string           `json:"-" badgerhold:"key"` // userID + "/" + symbol
	UserID     string           `json:"user_id" badgerhold:"index"`
	Symbol     string           `json:"symbol"`
	UpperLimit *decimal.Decimal `json:"upper_limit,omitempty"`
	LowerLimit *decimal.Decimal `json:"lower_limit,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TriggerKey builds the storage key for a (user, symbol) trigger.
func TriggerKey(userID, symbol string) string {
	return userID + "/" + symbol
}

// AlertKind identifies which limit a price crossing breached.
type AlertKind string

const (
	AlertKindUpper AlertKind = "upper"
	AlertKindLower AlertKind = "lower"
)

// AlertRecord is the dedup guard for emitted alerts: one per
// (user, symbol, calendar day). The storage layer inserts it with an
// insert-if-absent primitive so concurrent evaluations of the same crossing
// cannot both emit.
type AlertRecord struct {
	Hash      string    `json:"hash" badgerhold:"key"` // userID_symbol_YYYY-MM-DD
	UserID    string    `json:"user_id" badgerhold:"index"`
	Symbol    string    `json:"symbol"`
	Kind      AlertKind `json:"kind"`
	Day       string    `json:"day"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// AlertHash builds the daily dedup key for an alert.
func AlertHash(userID, symbol string, day time.Time) string {
	return userID + "_" + symbol + "_" + day.Format("2006-01-02")
}
