package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
)

type watchlistStorage struct {
	store  *Store
	logger *common.Logger
}

// NewWatchlistStorage creates a WatchlistStore backed by BadgerHold.
func NewWatchlistStorage(store *Store, logger *common.Logger) *watchlistStorage {
	return &watchlistStorage{store: store, logger: logger}
}

func (s *watchlistStorage) Get(_ context.Context, userID, symbol string) (*models.WatchlistTrigger, error) {
	var trigger models.WatchlistTrigger
	err := s.store.db.Get(models.TriggerKey(userID, symbol), &trigger)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrTriggerNotFound
		}
		return nil, fmt.Errorf("failed to get trigger %s/%s: %w", userID, symbol, err)
	}
	return &trigger, nil
}

func (s *watchlistStorage) ListByUser(_ context.Context, userID string) ([]*models.WatchlistTrigger, error) {
	var triggers []*models.WatchlistTrigger
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("Symbol")
	if err := s.store.db.Find(&triggers, query); err != nil {
		return nil, fmt.Errorf("failed to list triggers for '%s': %w", userID, err)
	}
	return triggers, nil
}

func (s *watchlistStorage) ListAll(_ context.Context) ([]*models.WatchlistTrigger, error) {
	var triggers []*models.WatchlistTrigger
	if err := s.store.db.Find(&triggers, nil); err != nil {
		return nil, fmt.Errorf("failed to list all triggers: %w", err)
	}
	return triggers, nil
}

func (s *watchlistStorage) Create(_ context.Context, trigger *models.WatchlistTrigger) error {
	if trigger.Key == "" {
		trigger.Key = models.TriggerKey(trigger.UserID, trigger.Symbol)
	}
	now := time.Now()
	trigger.CreatedAt = now
	trigger.UpdatedAt = now

	if err := s.store.db.Insert(trigger.Key, trigger); err != nil {
		if err == badgerhold.ErrKeyExists {
			return models.ErrDuplicateWatchlistEntry
		}
		return fmt.Errorf("failed to create trigger: %w", err)
	}
	s.logger.Debug().Str("key", trigger.Key).Msg("Watchlist trigger created")
	return nil
}

func (s *watchlistStorage) Delete(_ context.Context, userID, symbol string) error {
	err := s.store.db.Delete(models.TriggerKey(userID, symbol), models.WatchlistTrigger{})
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrTriggerNotFound
		}
		return fmt.Errorf("failed to delete trigger %s/%s: %w", userID, symbol, err)
	}
	s.logger.Debug().Str("user_id", userID).Str("symbol", symbol).Msg("Watchlist trigger deleted")
	return nil
}
