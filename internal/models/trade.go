package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of an executed order.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// ParseTradeSide normalizes a side string, returning false for anything
// other than buy/sell.
func ParseTradeSide(s string) (TradeSide, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return TradeSideBuy, true
	case "sell":
		return TradeSideSell, true
	default:
		return "", false
	}
}

// Trade is one executed order. Records are append-only and immutable once
// written; they are the sole source for trade history and realized P&L
// aggregation. RealizedPnL is zero for buys.
type Trade struct {
	ID          string          `json:"id" badgerhold:"key"`
	UserID      string          `json:"user_id" badgerhold:"index"`
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Side        TradeSide       `json:"side"`
	RealizedPnL decimal.Decimal `json:"realized_pnl"`
	ExecutedAt  time.Time       `json:"executed_at"`
}

// Cost returns quantity × execution price.
func (t *Trade) Cost() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// TradeResult is what the ledger returns to the caller after settlement.
type TradeResult struct {
	Trade       *Trade          `json:"trade"`
	Balance     decimal.Decimal `json:"balance"`
	RealizedPnL decimal.Decimal `json:"realized_pnl"`
}
