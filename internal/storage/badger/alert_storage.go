package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
)

type alertStorage struct {
	store  *Store
	logger *common.Logger
}

// NewAlertStorage creates an AlertStore backed by BadgerHold.
func NewAlertStorage(store *Store, logger *common.Logger) *alertStorage {
	return &alertStorage{store: store, logger: logger}
}

// InsertOnce relies on Badger's transactional Insert: when two concurrent
// evaluations race on the same hash, exactly one insert succeeds and the
// other observes ErrKeyExists.
func (s *alertStorage) InsertOnce(_ context.Context, record *models.AlertRecord) (bool, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := s.store.db.Insert(record.Hash, record); err != nil {
		if err == badgerhold.ErrKeyExists {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert alert record: %w", err)
	}
	s.logger.Debug().Str("hash", record.Hash).Msg("Alert record inserted")
	return true, nil
}
