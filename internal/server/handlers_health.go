package server

import (
	"time"

	"github.com/labstack/echo/v4"
)

// handleHealth reports process liveness. Always succeeds - it does not
// depend on hub or room state.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(200, map[string]string{
		"status":      "ok",
		"environment": s.config.AppEnv,
		"timestamp":   s.clock.Now().UTC().Format(time.RFC3339),
	})
}

// handleStats exposes connection and room counts for operational visibility.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(200, map[string]any{
		"connections":     s.hub.ConnectionCount(),
		"max_connections": s.connLimiter.Max(),
		"capacity_pct":    s.connLimiter.CapacityPct(),
	})
}
