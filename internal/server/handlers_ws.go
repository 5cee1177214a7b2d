package server

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fieldline/notify-relay/internal/domain"
	"github.com/fieldline/notify-relay/internal/metrics"
)

const maxMessageSize = 64 * 1024

// handleWebSocket upgrades the connection and runs its read loop until the
// client disconnects. Connection limits are checked before the upgrade so
// rejected clients get a plain HTTP error instead of a dropped socket.
func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	if !s.rateLimiter.Allow(ip) {
		metrics.WebSocketUpgradesRejected.WithLabelValues("rate_limited").Inc()
		return c.JSON(429, map[string]string{"error": "connection rate limit exceeded"})
	}

	if !s.connLimiter.Acquire() {
		metrics.WebSocketUpgradesRejected.WithLabelValues("capacity").Inc()
		slog.Warn("Rejecting connection: server at capacity", "max_connections", s.connLimiter.Max())
		return c.JSON(503, map[string]string{"error": "server at connection capacity"})
	}
	defer s.connLimiter.Release()

	if !s.ipLimiter.Acquire(ip) {
		metrics.WebSocketUpgradesRejected.WithLabelValues("ip_limit").Inc()
		return c.JSON(503, map[string]string{"error": "too many connections from this address"})
	}
	defer s.ipLimiter.Release(ip)

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrader has already written the handshake error response
		metrics.WebSocketUpgradesRejected.WithLabelValues("handshake").Inc()
		return nil
	}

	connID, err := s.hub.Register(conn)
	if err != nil {
		slog.Error("Failed to register connection", "error", err)
		_ = conn.Close()
		return nil
	}
	defer s.hub.Unregister(connID)

	s.readLoop(conn, connID)
	return nil
}

// readLoop consumes client events until the connection errors or closes.
// Membership is mutated only by explicit join messages from the client; the
// server never joins a connection to a room on its behalf.
func (s *Server) readLoop(conn *websocket.Conn, connID uuid.UUID) {
	conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event domain.ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			// Malformed frames are ignored, not fatal
			continue
		}

		switch event.Event {
		case domain.EventJoinUser:
			if event.UserID == "" {
				continue
			}
			metrics.WebSocketClientEvents.WithLabelValues(domain.EventJoinUser).Inc()
			s.hub.Join(connID, domain.UserRoom(event.UserID))
		default:
			metrics.WebSocketClientEvents.WithLabelValues("unknown").Inc()
		}
	}
}
