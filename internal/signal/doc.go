// Package signal fans lifecycle announcements out to any number of
// subscribers.
//
// # Overview
//
// The Broadcaster carries the engine host's startup signals to
// whoever cares: the bridge gating its handshake, a UI banner, a test.
// Each subscriber gets its own buffered channel; a slow subscriber
// drops signals rather than blocking the publisher.
//
// # Sticky Replay
//
// Startup signals are one-shot, so ordering subscribe against publish
// would be fragile. The broadcaster instead remembers the last
// published signal and replays it to late subscribers, so a bridge
// that starts after the host announced READY still sees it.
package signal
