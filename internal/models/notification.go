package models

import "time"

// NotificationType classifies a stored notification.
type NotificationType string

const (
	NotificationTypeAlert NotificationType = "alert"
	NotificationTypeError NotificationType = "error"
	NotificationTypeInfo  NotificationType = "info"
)

// Notification is a message queued for display to a user. The core only
// decides when one is created; rendering and delivery belong to the UI.
type Notification struct {
	ID        string           `json:"id" badgerhold:"key"`
	UserID    string           `json:"user_id" badgerhold:"index"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
