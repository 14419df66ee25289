// Package host runs the engine on a dedicated goroutine behind a
// request mailbox.
//
// # Overview
//
// The Host is the only goroutine that touches the engine. Callers
// Submit requests into a bounded mailbox and read replies from
// Responses; the host serves one request at a time, so the store never
// sees concurrent access and the caller's goroutine never blocks on
// disk.
//
// # Startup
//
// Run opens the engine and publishes exactly one lifecycle signal
// through the broadcaster:
//
//   - READY on success
//   - LOCK_UNAVAILABLE when another instance holds the store
//   - INIT_ERROR for any other open failure
//
// On a failed open Run returns the error and the host refuses all
// further submissions with ErrClosed.
//
// # Shutdown
//
// Cancelling Run's context stops the loop. Requests still queued in
// the mailbox are answered with a failure response rather than
// dropped, so no caller waits forever.
//
// # Dispatcher
//
// The Dispatcher maps every protocol operation to an engine call:
// decode the payload, validate it, execute, and wrap the result or
// error in a Response. It is also usable without a Host, which is how
// the direct transport drives the engine inline.
package host
