// Package badger provides BadgerHold-based storage implementations for all
// fintrack domain data.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// DB returns the underlying badgerhold store.
func (s *Store) DB() *badgerhold.Store {
	return s.db
}

// ApplyTrade commits a settled trade in one Badger transaction: account
// balance, position upsert/delete, and trade-log append land together or not
// at all. A transaction conflict surfaces as models.ErrBusy so the ledger can
// retry within its bounded budget.
func (s *Store) ApplyTrade(_ context.Context, app *interfaces.TradeApplication) error {
	err := s.db.Badger().Update(func(tx *badgerdb.Txn) error {
		if err := s.db.TxUpsert(tx, app.User.UserID, app.User); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		if app.Position != nil {
			if err := s.db.TxUpsert(tx, app.Position.Key, app.Position); err != nil {
				return fmt.Errorf("failed to upsert position: %w", err)
			}
		} else if app.DeletePositionKey != "" {
			err := s.db.TxDelete(tx, app.DeletePositionKey, models.Position{})
			if err != nil && err != badgerhold.ErrNotFound {
				return fmt.Errorf("failed to delete position: %w", err)
			}
		}

		if err := s.db.TxInsert(tx, app.Trade.ID, app.Trade); err != nil {
			return fmt.Errorf("failed to append trade: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrConflict) {
			return fmt.Errorf("trade commit conflict: %w", models.ErrBusy)
		}
		return err
	}
	return nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
