// ABOUTME: In-memory fan-out for engine lifecycle signals
// ABOUTME: Signals have no correlation id; every subscriber sees every one

package signal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// subscriberBufferSize is the channel buffer for each subscriber.
// Lifecycle signals are rare so a small buffer is plenty.
const subscriberBufferSize = 8

// Broadcaster provides in-memory pub/sub for lifecycle signals. The
// host publishes READY, LOCK_UNAVAILABLE or INIT_ERROR once during
// startup; bridges and UIs subscribe to learn the store's fate.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan protocol.Signal
	last        *protocol.Signal
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]chan protocol.Signal),
		logger:      logger.With("component", "signal"),
	}
}

// Subscribe registers a subscriber. Returns a channel that receives
// signals and a subscription ID for later unsubscription. The
// subscription is automatically cleaned up when ctx is cancelled.
// A subscriber arriving after a signal was published receives that
// last signal immediately, so a late bridge still sees the startup
// outcome.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan protocol.Signal, string) {
	subID := uuid.New().String()
	ch := make(chan protocol.Signal, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[subID] = ch
	if b.last != nil {
		ch <- *b.last
	}
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Publish sends a signal to every subscriber and remembers it for
// subscribers that arrive later. Non-blocking: signals are dropped for
// subscribers whose channels are full.
func (b *Broadcaster) Publish(sig protocol.Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &sig

	// The sends happen under the lock so Unsubscribe cannot close a
	// channel mid-send; the buffers keep them non-blocking.
	for subID, ch := range b.subscribers {
		select {
		case ch <- sig:
		default:
			b.logger.Debug("dropped signal for slow subscriber", "sub_id", subID, "kind", sig.Kind)
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	close(ch)

	b.logger.Debug("subscriber removed", "sub_id", subID)
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subID, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, subID)
	}

	b.logger.Debug("broadcaster closed")
}
