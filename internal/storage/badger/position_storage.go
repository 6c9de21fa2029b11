package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
)

type positionStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPositionStorage creates a PositionStore backed by BadgerHold.
func NewPositionStorage(store *Store, logger *common.Logger) *positionStorage {
	return &positionStorage{store: store, logger: logger}
}

func (s *positionStorage) Get(_ context.Context, userID, symbol string) (*models.Position, error) {
	var position models.Position
	err := s.store.db.Get(models.PositionKey(userID, symbol), &position)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get position %s/%s: %w", userID, symbol, err)
	}
	return &position, nil
}

func (s *positionStorage) ListByUser(_ context.Context, userID string) ([]*models.Position, error) {
	var positions []*models.Position
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("Symbol")
	if err := s.store.db.Find(&positions, query); err != nil {
		return nil, fmt.Errorf("failed to list positions for '%s': %w", userID, err)
	}
	return positions, nil
}

func (s *positionStorage) Upsert(_ context.Context, position *models.Position) error {
	if position.Key == "" {
		position.Key = models.PositionKey(position.UserID, position.Symbol)
	}
	position.UpdatedAt = time.Now()

	if err := s.store.db.Upsert(position.Key, position); err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	s.logger.Debug().Str("key", position.Key).Int64("quantity", position.Quantity).Msg("Position saved")
	return nil
}

func (s *positionStorage) Delete(_ context.Context, userID, symbol string) error {
	err := s.store.db.Delete(models.PositionKey(userID, symbol), models.Position{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete position %s/%s: %w", userID, symbol, err)
	}
	s.logger.Debug().Str("user_id", userID).Str("symbol", symbol).Msg("Position deleted")
	return nil
}
