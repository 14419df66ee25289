// Package protocol defines the wire vocabulary shared by both sides of
// the persistence boundary.
//
// # Overview
//
// Every interaction with the store is a typed operation carried by a
// Request and answered by exactly one Response. The package holds the
// operation names, the request/response/signal envelopes, the payload
// parameter types with their validation, and the domain types the
// engine returns.
//
// # Envelopes
//
// A Request carries a correlation id, an operation name and a raw JSON
// payload:
//
//	{"id": "…", "type": "habit.create", "payload": {…}}
//
// A Response echoes the id and carries either data or an error string:
//
//	{"id": "…", "ok": true, "data": {…}}
//	{"id": "…", "ok": false, "error": "name is required"}
//
// OK and Fail build the two shapes.
//
// # Lifecycle Signals
//
// The engine host announces its startup outcome once, as a Signal:
//
//   - READY: the store is open and serving
//   - LOCK_UNAVAILABLE: another instance holds the store lock
//   - INIT_ERROR: opening or migrating the store failed
//
// # Operations
//
// Ops() returns every operation name. Operation names are dotted
// entity.verb strings ("habit.create", "todo.complete", "bored.draw")
// and are stable wire contract: renaming one breaks clients.
//
// # Validation
//
// Parameter types implement Validate() where the operation has
// required fields or constrained values. The dispatcher calls it after
// decoding, so the engine only ever sees well-formed parameters.
package protocol
