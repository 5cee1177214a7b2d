// Package hub implements the real-time channel manager using the actor pattern.
//
// A single goroutine + command channel owns connection and room state (no
// mutexes). Per-connection write goroutines keep fan-out non-blocking and
// evict slow clients instead of stalling the loop. Fan-out is at-most-once,
// best-effort: an empty room is a no-op and socket write failures never
// propagate back to the caller.
package hub
