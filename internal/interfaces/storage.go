// Package interfaces defines service contracts for fintrack
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/models"
)

// StorageManager coordinates all storage backends. All stores share one
// underlying database so ApplyTrade can commit across them atomically.
type StorageManager interface {
	Users() UserStore
	Positions() PositionStore
	Trades() TradeStore
	Watchlists() WatchlistStore
	Alerts() AlertStore
	Notifications() NotificationStore
	Snapshots() SnapshotStore

	// ApplyTrade commits a settled trade as one transaction: the account
	// balance, the position upsert or delete, and the trade-log append all
	// land together or not at all.
	ApplyTrade(ctx context.Context, app *TradeApplication) error

	Close() error
}

// TradeApplication is the atomic unit committed by ApplyTrade. Position and
// DeletePositionKey are mutually exclusive: a nil Position with a non-empty
// DeletePositionKey removes the record (position sold down to zero).
type TradeApplication struct {
	User              *models.User
	Position          *models.Position
	DeletePositionKey string
	Trade             *models.Trade
}

// UserStore manages account records.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new account; models.ErrDuplicateEmail when the email
	// is already registered.
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// PositionStore manages per-(user, symbol) holdings.
type PositionStore interface {
	// Get returns nil, nil when no position exists for the pair.
	Get(ctx context.Context, userID, symbol string) (*models.Position, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Position, error)
	Upsert(ctx context.Context, position *models.Position) error
	Delete(ctx context.Context, userID, symbol string) error
}

// TradeStore is the append-only trade log.
type TradeStore interface {
	Append(ctx context.Context, trade *models.Trade) error
	// ListByUser returns trades sorted newest-first.
	ListByUser(ctx context.Context, userID string) ([]*models.Trade, error)
	// SumRealizedPnL totals realized P&L across all of a user's trades.
	SumRealizedPnL(ctx context.Context, userID string) (decimal.Decimal, error)
}

// WatchlistStore manages price triggers, unique per (user, symbol).
type WatchlistStore interface {
	Get(ctx context.Context, userID, symbol string) (*models.WatchlistTrigger, error)
	ListByUser(ctx context.Context, userID string) ([]*models.WatchlistTrigger, error)
	ListAll(ctx context.Context) ([]*models.WatchlistTrigger, error)
	// Create fails with models.ErrDuplicateWatchlistEntry when the pair exists.
	Create(ctx context.Context, trigger *models.WatchlistTrigger) error
	Delete(ctx context.Context, userID, symbol string) error
}

// AlertStore persists alert dedup records.
type AlertStore interface {
	// InsertOnce atomically inserts the record if its hash is absent.
	// Returns false (no error) when a record with the same hash already
	// exists — the duplicate-key rejection is the dedup guard.
	InsertOnce(ctx context.Context, record *models.AlertRecord) (bool, error)
}

// NotificationStore manages stored notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListByUser returns notifications sorted newest-first.
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

// SnapshotStore records portfolio value history.
type SnapshotStore interface {
	Append(ctx context.Context, snapshot *models.Snapshot) error
	// ListByUser returns snapshots sorted oldest-first for charting.
	ListByUser(ctx context.Context, userID string) ([]*models.Snapshot, error)
}
