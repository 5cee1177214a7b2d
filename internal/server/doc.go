// Package server implements the HTTP surface using Echo framework.
//
// Routes: notification ingestion (POST /notify), liveness (GET /health),
// the WebSocket endpoint (GET /ws), metrics and stats. Handlers split by
// concern: handlers_notify.go, handlers_health.go, handlers_ws.go.
// Connection limits are enforced before the WebSocket upgrade.
package server
