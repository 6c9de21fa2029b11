package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a user's current holding in one symbol: quantity plus the
// quantity-weighted average entry price. A position only exists while
// quantity > 0 — selling down to zero deletes the record rather than
// persisting it at zero, so AvgCost is always defined on a stored position.
type Position struct {
	Key       string          `json:"-" badgerhold:"key"` // userID + "/" + symbol
	UserID    string          `json:"user_id" badgerhold:"index"`
	Symbol    string          `json:"symbol"` // always uppercase
	Quantity  int64           `json:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PositionKey builds the storage key for a (user, symbol) position.
func PositionKey(userID, symbol string) string {
	return userID + "/" + symbol
}

// CostBasis returns quantity × average cost, the invested value of the position.
func (p *Position) CostBasis() decimal.Decimal {
	return p.AvgCost.Mul(decimal.NewFromInt(p.Quantity))
}
