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

type notificationStorage struct {
	store  *Store
	logger *common.Logger
}

// NewNotificationStorage creates a NotificationStore backed by BadgerHold.
func NewNotificationStorage(store *Store, logger *common.Logger) *notificationStorage {
	return &notificationStorage{store: store, logger: logger}
}

func (s *notificationStorage) Create(_ context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = models.NotificationTypeAlert
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.store.db.Insert(n.ID, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *notificationStorage) ListByUser(_ context.Context, userID string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("CreatedAt").Reverse()
	if err := s.store.db.Find(&notifications, query); err != nil {
		return nil, fmt.Errorf("failed to list notifications for '%s': %w", userID, err)
	}
	return notifications, nil
}

func (s *notificationStorage) MarkRead(_ context.Context, userID, id string) error {
	var n models.Notification
	if err := s.store.db.Get(id, &n); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("notification '%s' not found", id)
		}
		return fmt.Errorf("failed to get notification '%s': %w", id, err)
	}
	if n.UserID != userID {
		return fmt.Errorf("notification '%s' not found", id)
	}

	n.IsRead = true
	if err := s.store.db.Update(id, &n); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
