package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultType is used when the caller omits the notification type.
const DefaultType = "info"

// Notification is the payload pushed to clients. It is built from a /notify
// request, emitted once, and never stored.
type Notification struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// NewNotification stamps the notification with the server-side emission time.
func NewNotification(title, message, notificationType string, clock clockwork.Clock) Notification {
	if notificationType == "" {
		notificationType = DefaultType
	}
	return Notification{
		Title:     title,
		Message:   message,
		Type:      notificationType,
		Timestamp: clock.Now().UTC().Format(time.RFC3339),
	}
}

// UserRoom returns the room name for a recipient. Rooms are namespaced with a
// "user_" prefix so recipient identifiers cannot collide with any other room
// naming convention.
func UserRoom(userID string) string {
	return "user_" + userID
}
