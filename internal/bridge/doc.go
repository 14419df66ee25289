// Package bridge turns the async request/response protocol into
// blocking calls.
//
// # Overview
//
// The Bridge sits on the caller's side of the persistence boundary.
// Each Call assigns a UUID correlation id, registers a pending entry,
// sends the request through a Transport and blocks until the matching
// response arrives. A background goroutine routes responses to their
// pending entries; responses with no match are logged and dropped.
//
// # Startup Handshake
//
// Start waits for the engine's first lifecycle signal before allowing
// any calls:
//
//   - READY enables the bridge
//   - LOCK_UNAVAILABLE and INIT_ERROR leave it disabled; every Call
//     then fails fast with ErrDisabled
//   - no signal within the timeout yields ErrStartupTimeout
//
// A disabled bridge is not an aborted program: the app keeps running
// with persistence off.
//
// # Transports
//
// The Transport interface hides where the engine lives. HostTransport
// crosses into a Host on its own goroutine (the production
// arrangement); DirectTransport drives the engine inline, for one-shot
// CLI commands and tests.
//
// # Client
//
// Client wraps Call with a typed method per operation, so callers work
// with parameter and result structs instead of raw JSON:
//
//	c := bridge.NewClient(b)
//	habit, err := c.CreateHabit(ctx, &protocol.CreateHabitParams{…})
package bridge
