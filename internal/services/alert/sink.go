package alert

import (
	"context"
	"time"

	"github.com/fintrack/fintrack/internal/interfaces"
	"github.com/fintrack/fintrack/internal/models"
)

// Compile-time interface check
var _ interfaces.NotificationSink = (*StoreSink)(nil)

// StoreSink delivers alert notifications to the notification store.
type StoreSink struct {
	store interfaces.NotificationStore
}

// NewStoreSink creates a sink backed by the given notification store.
func NewStoreSink(store interfaces.NotificationStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Notify(ctx context.Context, userID, message string, createdAt time.Time) error {
	return s.store.Create(ctx, &models.Notification{
		UserID:    userID,
		Message:   message,
		Type:      models.NotificationTypeAlert,
		CreatedAt: createdAt,
	})
}
