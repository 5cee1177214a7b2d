package domain

// Wire event names for the WebSocket channel.
const (
	// EventJoinUser is sent by a client to join its recipient room.
	EventJoinUser = "join_user"
	// EventNotification is pushed to every client in the targeted room.
	EventNotification = "notification"
)

// ClientEvent is the envelope for client-to-server messages. Unknown events
// and malformed payloads are ignored by the read loop.
type ClientEvent struct {
	Event  string `json:"event"`
	UserID string `json:"user_id"`
}

// ServerEvent is the envelope for server-to-client pushes.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
