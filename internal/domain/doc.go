// Package domain defines the core types shared across the relay.
//
// Concept-oriented files: notification.go (payload and room naming),
// events.go (WebSocket wire envelopes). No implementation code - just the
// contracts the hub and server agree on.
package domain
