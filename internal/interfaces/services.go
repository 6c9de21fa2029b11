package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

// LedgerService applies trade intents to balance, position, and history
// atomically. The central settlement engine.
type LedgerService interface {
	// ExecuteTrade validates and settles one order. On success it returns
	// the trade, the new balance, and the realized P&L (zero for buys).
	// Rejections come back as typed errors: models.ErrInvalidQuantity,
	// ErrInvalidPrice, ErrInvalidSide, ErrInsufficientFunds,
	// ErrInsufficientShares, or ErrBusy when the per-user lock cannot be
	// acquired in time.
	ExecuteTrade(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal, side models.TradeSide) (*models.TradeResult, error)
}

// PortfolioService derives analytics from positions, quotes, and the trade log.
type PortfolioService interface {
	GetHoldingsView(ctx context.Context, userID string) ([]models.HoldingView, error)
	GetSummary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
	GetAllocation(ctx context.Context, userID string) ([]models.AllocationEntry, error)
	GetHistory(ctx context.Context, userID string) ([]*models.Snapshot, error)
	// RecordSnapshot computes holdings value + cash and appends a snapshot.
	RecordSnapshot(ctx context.Context, userID string) (*models.Snapshot, error)
}

// QuoteService supplies current prices, with caching and staleness policy
// applied behind the interface.
type QuoteService interface {
	// GetQuote returns models.ErrQuoteUnavailable (possibly wrapped) when no
	// price can be produced for the symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// WatchlistService manages per-user price triggers.
type WatchlistService interface {
	AddTrigger(ctx context.Context, userID, symbol string, upper, lower *decimal.Decimal) (*models.WatchlistTrigger, error)
	GetTriggers(ctx context.Context, userID string) ([]*models.WatchlistTrigger, error)
	RemoveTrigger(ctx context.Context, userID, symbol string) error
}

// AlertService compares prices against triggers and emits deduplicated
// notifications.
type AlertService interface {
	// CheckAlerts evaluates the user's trigger on symbol at currentPrice.
	// Returns true when a notification was emitted (at most one per
	// user/symbol/day).
	CheckAlerts(ctx context.Context, userID, symbol string, currentPrice decimal.Decimal) (bool, error)
	// Sweep evaluates every stored trigger against a live quote. Used by the
	// background scheduler.
	Sweep(ctx context.Context) error
}

// NotificationSink accepts messages for display. The core decides when to
// emit; rendering and delivery are the consumer's concern.
type NotificationSink interface {
	Notify(ctx context.Context, userID, message string, createdAt time.Time) error
}
