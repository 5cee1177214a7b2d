package server

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/fieldline/notify-relay/internal/domain"
	"github.com/fieldline/notify-relay/internal/metrics"
)

type notifyRequest struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// handleNotify validates an inbound notification and hands it to the hub.
// The 200 acknowledgment confirms hand-off to the hub, not that any client
// received the push - fan-out is fire-and-forget.
func (s *Server) handleNotify(c echo.Context) error {
	// Secret check first: no fan-out and no field validation for
	// unauthorized callers.
	if s.config.IsProduction() && s.config.NotifySecret != "" {
		provided := c.Request().Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.config.NotifySecret)) != 1 {
			metrics.NotificationsRejected.WithLabelValues("unauthorized").Inc()
			return c.JSON(401, map[string]any{"success": false, "error": "Unauthorized"})
		}
	}

	var req notifyRequest
	if err := c.Bind(&req); err != nil {
		req = notifyRequest{}
	}
	if req.UserID == "" || req.Title == "" || req.Message == "" {
		metrics.NotificationsRejected.WithLabelValues("validation").Inc()
		return c.JSON(400, map[string]any{
			"success": false,
			"error":   "Missing required fields: user_id, title, message",
		})
	}

	notification := domain.NewNotification(req.Title, req.Message, req.Type, s.clock)
	data, err := json.Marshal(domain.ServerEvent{
		Event: domain.EventNotification,
		Data:  notification,
	})
	if err != nil {
		slog.Error("Failed to marshal notification", "error", err)
		return c.JSON(500, map[string]any{"success": false, "error": "Internal error"})
	}

	room := domain.UserRoom(req.UserID)
	s.hub.Emit(room, data)

	metrics.NotificationsSent.WithLabelValues(notification.Type).Inc()
	slog.Info("Notification sent", "room", room, "title", req.Title, "type", notification.Type)

	return c.JSON(200, map[string]any{"success": true, "message": "Notification sent"})
}
