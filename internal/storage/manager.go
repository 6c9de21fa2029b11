// Package storage wires the concrete storage backends behind the
// interfaces.StorageManager contract.
package storage

import (
	"context"
	"fmt"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/storage/badger"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager coordinates all stores over a single BadgerHold database so the
// ledger's multi-record trade commit can run in one transaction.
type Manager struct {
	store         *badger.Store
	users         interfaces.UserStore
	positions     interfaces.PositionStore
	trades        interfaces.TradeStore
	watchlists    interfaces.WatchlistStore
	alerts        interfaces.AlertStore
	notifications interfaces.NotificationStore
	snapshots     interfaces.SnapshotStore
	logger        *common.Logger
}

// NewManager opens the database at the configured path and builds all stores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return newManager(store, logger), nil
}

func newManager(store *badger.Store, logger *common.Logger) *Manager {
	return &Manager{
		store:         store,
		users:         badger.NewUserStorage(store, logger),
		positions:     badger.NewPositionStorage(store, logger),
		trades:        badger.NewTradeStorage(store, logger),
		watchlists:    badger.NewWatchlistStorage(store, logger),
		alerts:        badger.NewAlertStorage(store, logger),
		notifications: badger.NewNotificationStorage(store, logger),
		snapshots:     badger.NewSnapshotStorage(store, logger),
		logger:        logger,
	}
}

// NewManagerAt opens a manager over an explicit directory. Used by tests with
// t.TempDir.
func NewManagerAt(logger *common.Logger, path string) (*Manager, error) {
	store, err := badger.NewStore(logger, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return newManager(store, logger), nil
}

func (m *Manager) Users() interfaces.UserStore                 { return m.users }
func (m *Manager) Positions() interfaces.PositionStore         { return m.positions }
func (m *Manager) Trades() interfaces.TradeStore               { return m.trades }
func (m *Manager) Watchlists() interfaces.WatchlistStore       { return m.watchlists }
func (m *Manager) Alerts() interfaces.AlertStore               { return m.alerts }
func (m *Manager) Notifications() interfaces.NotificationStore { return m.notifications }
func (m *Manager) Snapshots() interfaces.SnapshotStore         { return m.snapshots }

// ApplyTrade delegates to the underlying store's transactional commit.
func (m *Manager) ApplyTrade(ctx context.Context, app *interfaces.TradeApplication) error {
	return m.store.ApplyTrade(ctx, app)
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.store.Close()
}
