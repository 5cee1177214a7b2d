// Package metrics defines the Prometheus instrumentation for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hub metrics
var (
	// HubConnectedClients tracks the number of live WebSocket connections.
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Number of live WebSocket connections",
		},
	)

	// HubActiveRooms tracks the number of rooms with at least one member.
	HubActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_rooms",
			Help: "Number of rooms with at least one member",
		},
	)

	// HubSlowClientsEvicted counts clients dropped because their write buffer was full.
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)

	// HubStopTimeoutsTotal counts hub shutdowns that exceeded the stop timeout.
	HubStopTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_stop_timeouts_total",
			Help: "Hub shutdowns that exceeded the stop timeout",
		},
	)
)

// Notification metrics
var (
	// NotificationsSent counts notifications accepted for fan-out, by type.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Notifications accepted for fan-out, by type",
		},
		[]string{"type"},
	)

	// NotificationsNoRecipients counts notifications emitted to empty rooms.
	NotificationsNoRecipients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_no_recipients_total",
			Help: "Notifications emitted to rooms with no connected clients",
		},
	)

	// NotificationsRejected counts rejected /notify requests by reason.
	NotificationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_rejected_total",
			Help: "Rejected /notify requests by reason (validation, unauthorized)",
		},
		[]string{"reason"},
	)
)

// WebSocket endpoint metrics
var (
	// WebSocketUpgradesRejected counts upgrade attempts refused before the handshake, by reason.
	WebSocketUpgradesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_upgrades_rejected_total",
			Help: "WebSocket upgrades refused before the handshake, by reason",
		},
		[]string{"reason"},
	)

	// WebSocketClientEvents counts client-to-server events by event name.
	WebSocketClientEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_client_events_total",
			Help: "Client-to-server WebSocket events by event name",
		},
		[]string{"event"},
	)
)
