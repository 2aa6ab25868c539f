package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

const DefaultNotificationDuration = 5 * time.Second

// Notification is the user-facing outcome of a mutating operation.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Duration  int64            `json:"duration"` // milliseconds, 0 means the default
	CreatedAt time.Time        `json:"createdAt"`
}

func NewNotification(kind NotificationType, title, message string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

func (n Notification) ExpiresAt() time.Time {
	d := time.Duration(n.Duration) * time.Millisecond
	if d <= 0 {
		d = DefaultNotificationDuration
	}
	return n.CreatedAt.Add(d)
}
