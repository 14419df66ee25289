// ABOUTME: Wire envelopes for the persistence command protocol
// ABOUTME: Defines Request/Response correlation shapes and uncorrelated lifecycle signals

package protocol

import "encoding/json"

// Request is a single persistence command sent to the engine host.
// The ID is caller-assigned and pairs the request with exactly one
// terminal Response. Payload is the JSON-encoded parameter struct for
// the operation; operations without parameters leave it empty.
type Request struct {
	ID      string          `json:"id"`
	Op      Op              `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the terminal reply for one Request. Exactly one Response
// is delivered per Request; there are no partial or streaming replies.
type Response struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// OK builds a successful response carrying the marshalled result.
// A marshalling failure is reported as a command failure rather than
// crashing the host.
func OK(id string, result any) *Response {
	if result == nil {
		return &Response{ID: id, OK: true}
	}
	data, err := json.Marshal(result)
	if err != nil {
		return Fail(id, "encoding result: "+err.Error())
	}
	return &Response{ID: id, OK: true, Data: data}
}

// Fail builds a failed response carrying an error message.
func Fail(id string, msg string) *Response {
	return &Response{ID: id, OK: false, Error: msg}
}

// SignalKind identifies a lifecycle signal from the engine host.
type SignalKind string

const (
	// SignalReady is broadcast once when the host has acquired the store
	// and finished schema migration.
	SignalReady SignalKind = "READY"

	// SignalLockUnavailable is broadcast when another process already
	// holds the single-writer lock on the store. Terminal for the host.
	SignalLockUnavailable SignalKind = "LOCK_UNAVAILABLE"

	// SignalInitError is broadcast when store initialization fails for
	// any other reason. Terminal for the host.
	SignalInitError SignalKind = "INIT_ERROR"
)

// Signal is an unsolicited lifecycle message from the engine host. It
// carries no correlation id; receivers distinguish it from a Response
// by the absence of an id-bearing shape.
type Signal struct {
	Kind    SignalKind `json:"type"`
	Message string     `json:"message,omitempty"`
}
