package server

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/fieldline/notify-relay/internal/config"
)

// testTime is the fake clock's fixed time, used to assert server-assigned timestamps.
var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type emitCall struct {
	room string
	data []byte
}

// recordingHub records hub calls for handler unit tests.
type recordingHub struct {
	mu    sync.Mutex
	emits []emitCall
	joins map[uuid.UUID][]string
}

func newRecordingHub() *recordingHub {
	return &recordingHub{joins: make(map[uuid.UUID][]string)}
}

func (h *recordingHub) Register(_ *websocket.Conn) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (h *recordingHub) Join(connectionID uuid.UUID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joins[connectionID] = append(h.joins[connectionID], room)
}

func (h *recordingHub) Emit(room string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emits = append(h.emits, emitCall{room: room, data: data})
}

func (h *recordingHub) Unregister(_ uuid.UUID) {}

func (h *recordingHub) RoomSize(_ string) int { return 0 }

func (h *recordingHub) ConnectionCount() int { return 0 }

func (h *recordingHub) emitCalls() []emitCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]emitCall(nil), h.emits...)
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:              "development",
		Host:                "127.0.0.1",
		Port:                "0",
		AllowedOrigins:      "http://localhost:5173",
		MaxConnections:      100,
		MaxConnectionsPerIP: 32,
		ConnectionRatePerIP: 1000,
		ConnectionBurst:     1000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, h Hub) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	return NewServer(cfg, h, clockwork.NewFakeClockAt(testTime))
}
