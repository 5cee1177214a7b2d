package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fieldline/notify-relay/internal/config"
)

// secretHeader carries the shared secret on /notify calls. Enforced only in
// production mode and only when a secret is configured.
const secretHeader = "X-Notify-Secret"

// Hub is the channel manager contract the server depends on. Kept on the
// consumer side so handlers can be tested against a recording fake.
type Hub interface {
	Register(conn *websocket.Conn) (uuid.UUID, error)
	Join(connectionID uuid.UUID, room string)
	Emit(room string, data []byte)
	Unregister(connectionID uuid.UUID)
	RoomSize(room string) int
	ConnectionCount() int
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	hub         Hub
	clock       clockwork.Clock
	upgrader    websocket.Upgrader
	connLimiter *GlobalConnectionLimiter
	ipLimiter   *IPConnectionLimiter
	rateLimiter *ConnectionRateLimiter
}

func NewServer(cfg *config.Config, h Hub, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Origins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderContentType, secretHeader},
	}))

	srv := &Server{
		echo:   e,
		config: cfg,
		hub:    h,
		clock:  clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     NewCheckOrigin(cfg.Origins(), !cfg.IsProduction()),
		},
		connLimiter: NewGlobalConnectionLimiter(cfg.MaxConnections),
		ipLimiter:   NewIPConnectionLimiter(cfg.MaxConnectionsPerIP),
		rateLimiter: NewConnectionRateLimiter(cfg.ConnectionRatePerIP, cfg.ConnectionBurst),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(s.config.Addr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
