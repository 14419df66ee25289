// ABOUTME: Transport abstraction between the bridge and the engine
// ABOUTME: HostTransport crosses into the host actor, DirectTransport runs inline

package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/tendril-app/tendril/internal/engine"
	"github.com/tendril-app/tendril/internal/host"
	"github.com/tendril-app/tendril/internal/protocol"
	"github.com/tendril-app/tendril/internal/signal"
)

// Transport moves requests toward an engine and delivers responses
// and lifecycle signals back. The bridge never sees which side of the
// boundary the engine lives on.
type Transport interface {
	// Send submits one request. Delivery, not completion.
	Send(ctx context.Context, req *protocol.Request) error

	// Responses streams replies. Every sent request yields exactly one.
	Responses() <-chan *protocol.Response

	// Signals streams lifecycle announcements. The subscription ends
	// when ctx is cancelled.
	Signals(ctx context.Context) <-chan protocol.Signal
}

// HostTransport connects a bridge to a Host running on its own
// goroutine. This is the production arrangement: the store never
// blocks the caller's thread.
type HostTransport struct {
	host    *host.Host
	signals *signal.Broadcaster
}

// NewHostTransport wires a transport to a host and its signal
// broadcaster. The caller owns running the host.
func NewHostTransport(h *host.Host, signals *signal.Broadcaster) *HostTransport {
	return &HostTransport{host: h, signals: signals}
}

func (t *HostTransport) Send(ctx context.Context, req *protocol.Request) error {
	return t.host.Submit(ctx, req)
}

func (t *HostTransport) Responses() <-chan *protocol.Response {
	return t.host.Responses()
}

func (t *HostTransport) Signals(ctx context.Context) <-chan protocol.Signal {
	ch, _ := t.signals.Subscribe(ctx)
	return ch
}

// DirectTransport drives an engine synchronously on the caller's
// goroutine, for CLI one-shot commands and tests where a separate
// host goroutine is overhead. A mutex provides the serialization the
// host loop gives for free.
type DirectTransport struct {
	mu         sync.Mutex
	dispatcher *host.Dispatcher
	eng        *engine.Engine
	responses  chan *protocol.Response
	startupErr error
}

// NewDirectTransport opens the store at path inline. The startup
// outcome is replayed to every Signals subscriber, so opening before
// anyone listens does not lose the announcement.
func NewDirectTransport(path string, logger *slog.Logger) *DirectTransport {
	t := &DirectTransport{
		responses: make(chan *protocol.Response, 16),
	}
	eng, err := engine.Open(path)
	if err != nil {
		t.startupErr = err
		return t
	}
	t.eng = eng
	t.dispatcher = host.NewDispatcher(eng, logger)
	return t
}

func (t *DirectTransport) Send(ctx context.Context, req *protocol.Request) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dispatcher == nil {
		return t.startupErr
	}

	resp := t.dispatcher.Dispatch(ctx, req)
	select {
	case t.responses <- resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *DirectTransport) Responses() <-chan *protocol.Response {
	return t.responses
}

// Signals replays the startup outcome to each subscriber.
func (t *DirectTransport) Signals(ctx context.Context) <-chan protocol.Signal {
	ch := make(chan protocol.Signal, 1)
	ch <- t.startupSignal()
	return ch
}

func (t *DirectTransport) startupSignal() protocol.Signal {
	switch {
	case t.startupErr == nil:
		return protocol.Signal{Kind: protocol.SignalReady}
	case errors.Is(t.startupErr, engine.ErrLocked):
		return protocol.Signal{
			Kind:    protocol.SignalLockUnavailable,
			Message: "another instance holds the store lock",
		}
	default:
		return protocol.Signal{Kind: protocol.SignalInitError, Message: t.startupErr.Error()}
	}
}

// Close releases the store.
func (t *DirectTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.eng == nil {
		return nil
	}
	return t.eng.Close()
}
