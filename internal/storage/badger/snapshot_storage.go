package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/fintrack/fintrack/internal/common"
	"github.com/fintrack/fintrack/internal/models"
)

type snapshotStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSnapshotStorage creates a SnapshotStore backed by BadgerHold.
func NewSnapshotStorage(store *Store, logger *common.Logger) *snapshotStorage {
	return &snapshotStorage{store: store, logger: logger}
}

func (s *snapshotStorage) Append(_ context.Context, snapshot *models.Snapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now()
	}

	if err := s.store.db.Insert(snapshot.ID, snapshot); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

func (s *snapshotStorage) ListByUser(_ context.Context, userID string) ([]*models.Snapshot, error) {
	var snapshots []*models.Snapshot
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("Timestamp")
	if err := s.store.db.Find(&snapshots, query); err != nil {
		return nil, fmt.Errorf("failed to list snapshots for '%s': %w", userID, err)
	}
	return snapshots, nil
}
