package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/stats", s.handleStats)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Notification ingestion (backend-facing)
	s.echo.POST("/notify", s.handleNotify)

	// WebSocket endpoint (browser-facing)
	s.echo.GET("/ws", s.handleWebSocket)
}
