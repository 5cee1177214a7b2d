package hub

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/fieldline/notify-relay/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// --- Command types ---

type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	replyChannel chan uuid.UUID
}

type joinCmd struct {
	baseHubCmd
	connectionID uuid.UUID
	room         string
}

type emitCmd struct {
	baseHubCmd
	room string
	data []byte
}

type unregisterCmd struct {
	baseHubCmd
	connectionID uuid.UUID
}

type roomSizeCmd struct {
	baseHubCmd
	room         string
	replyChannel chan int
}

type connectionCountCmd struct {
	baseHubCmd
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// --- Hub ---

type client struct {
	id     uuid.UUID
	writer *clientWriter
	rooms  map[string]struct{}
}

// Hub tracks live connections and room membership, and fans notifications
// out to every member of a room. A single goroutine owns all state and
// consumes commands in FIFO order, so accept, join, emit and disconnect are
// serialized without locks - two emits for the same room are always
// delivered in the order Emit was called.
type Hub struct {
	cmdCh       chan hubCmd
	clock       clockwork.Clock
	clients     map[uuid.UUID]*client
	rooms       map[string]map[uuid.UUID]*client
	done        chan struct{}
	stopTimeout time.Duration
}

// NewHub creates the hub and starts its actor goroutine.
func NewHub(clock clockwork.Clock) *Hub {
	h := &Hub{
		cmdCh:       make(chan hubCmd, 256),
		clock:       clock,
		clients:     make(map[uuid.UUID]*client),
		rooms:       make(map[string]map[uuid.UUID]*client),
		done:        make(chan struct{}),
		stopTimeout: stopTimeout,
	}
	go h.run()
	return h
}

// Register adds a live connection to the hub and returns its assigned
// connection ID. Acceptance is unconditional - there is no auth at connect
// time and no room memberships yet. Returns an error only if the hub is
// stuck and the command times out.
func (h *Hub) Register(conn *websocket.Conn) (uuid.UUID, error) {
	replyCh := make(chan uuid.UUID, 1)
	h.cmdCh <- registerCmd{connection: conn, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case id := <-replyCh:
		return id, nil
	case <-timer.Chan():
		return uuid.Nil, fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Join adds the connection to the named room. Idempotent - joining twice has
// no additional effect. The room is created on first join.
func (h *Hub) Join(connectionID uuid.UUID, room string) {
	h.cmdCh <- joinCmd{connectionID: connectionID, room: room}
}

// Emit delivers data to every connection currently in the room. Fire and
// forget: an empty room is a silent no-op, there is no delivery
// acknowledgment, and Emit returns before any socket write happens.
func (h *Hub) Emit(room string, data []byte) {
	h.cmdCh <- emitCmd{room: room, data: data}
}

// Unregister removes the connection and all its room memberships. This is
// the only removal path - there is no explicit leave operation.
func (h *Hub) Unregister(connectionID uuid.UUID) {
	h.cmdCh <- unregisterCmd{connectionID: connectionID}
}

// RoomSize returns the number of connections currently in the room.
// Returns -1 if the command times out.
func (h *Hub) RoomSize(room string) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- roomSizeCmd{room: room, replyChannel: replyCh}
	return h.awaitCount(replyCh, "RoomSize")
}

// ConnectionCount returns the number of live connections.
// Returns -1 if the command times out.
func (h *Hub) ConnectionCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- connectionCountCmd{replyChannel: replyCh}
	return h.awaitCount(replyCh, "ConnectionCount")
}

func (h *Hub) awaitCount(replyCh chan int, op string) int {
	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("Hub query timed out", "operation", op, "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the hub, closing all client connections. Blocks until the
// actor goroutine has exited or the stop timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(h.stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded, forcing exit", "timeout", h.stopTimeout)
		metrics.HubStopTimeoutsTotal.Inc()
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Hub panic recovered", "panic", r)
			h.closeAllClients("hub panic")
			close(h.done)
		}
	}()

	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			h.handleRegister(c)
		case joinCmd:
			h.handleJoin(c)
		case emitCmd:
			h.handleEmit(c)
		case unregisterCmd:
			h.handleUnregister(c.connectionID)
		case roomSizeCmd:
			c.replyChannel <- len(h.rooms[c.room])
		case connectionCountCmd:
			c.replyChannel <- len(h.clients)
		case stopCmd:
			h.handleStop()
			return
		default:
			slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	id := uuid.New()
	h.clients[id] = &client{
		id:     id,
		writer: newClientWriter(c.connection, h.clock),
		rooms:  make(map[string]struct{}),
	}

	metrics.HubConnectedClients.Set(float64(len(h.clients)))
	slog.Info("Client connected", "connection_id", id.String(), "total_clients", len(h.clients))
	c.replyChannel <- id
}

func (h *Hub) handleJoin(c joinCmd) {
	cl, exists := h.clients[c.connectionID]
	if !exists {
		return
	}
	if _, member := cl.rooms[c.room]; member {
		return
	}

	cl.rooms[c.room] = struct{}{}
	members, exists := h.rooms[c.room]
	if !exists {
		members = make(map[uuid.UUID]*client)
		h.rooms[c.room] = members
	}
	members[c.connectionID] = cl

	metrics.HubActiveRooms.Set(float64(len(h.rooms)))
	slog.Info("Client joined room", "connection_id", c.connectionID.String(), "room", c.room, "room_size", len(members))
}

func (h *Hub) handleEmit(c emitCmd) {
	members, exists := h.rooms[c.room]
	if !exists {
		// Empty room: no-op, not an error
		metrics.NotificationsNoRecipients.Inc()
		slog.Debug("Emit to empty room", "room", c.room)
		return
	}

	var slow []uuid.UUID
	for id, cl := range members {
		select {
		case cl.writer.sendChannel <- c.data:
		default:
			slow = append(slow, id)
		}
	}

	for _, id := range slow {
		slog.Warn("Disconnecting slow client", "connection_id", id.String(), "room", c.room)
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(id)
	}
}

func (h *Hub) handleUnregister(connectionID uuid.UUID) {
	cl, exists := h.clients[connectionID]
	if !exists {
		return
	}

	cl.writer.stop()
	delete(h.clients, connectionID)
	for room := range cl.rooms {
		members := h.rooms[room]
		delete(members, connectionID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}

	metrics.HubConnectedClients.Set(float64(len(h.clients)))
	metrics.HubActiveRooms.Set(float64(len(h.rooms)))
	slog.Info("Client disconnected", "connection_id", connectionID.String(), "total_clients", len(h.clients))
}

func (h *Hub) handleStop() {
	h.closeAllClients("server shutting down")
	close(h.done)
}

func (h *Hub) closeAllClients(reason string) {
	for id, cl := range h.clients {
		cl.writer.stopGraceful(reason)
		delete(h.clients, id)
	}
	h.rooms = make(map[string]map[uuid.UUID]*client)
	metrics.HubConnectedClients.Set(0)
	metrics.HubActiveRooms.Set(0)
}
