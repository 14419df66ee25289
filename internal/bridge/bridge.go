// ABOUTME: Caller-side correlation layer turning the async protocol into blocking calls
// ABOUTME: Pairs responses to pending requests by id and gates on the startup handshake

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// DefaultStartupTimeout bounds how long Start waits for the engine's
// first lifecycle signal.
const DefaultStartupTimeout = 10 * time.Second

// ErrDisabled is returned by every Call after the engine announced
// LOCK_UNAVAILABLE or INIT_ERROR, and by Call before Start. Callers
// fail fast instead of queueing work the engine will never see.
var ErrDisabled = errors.New("persistence is disabled")

// ErrStartupTimeout is returned by Start when no lifecycle signal
// arrives in time.
var ErrStartupTimeout = errors.New("timed out waiting for engine startup")

// Bridge matches responses to in-flight requests by correlation id.
// One bridge serves any number of concurrent callers; each Call
// blocks only its own goroutine.
type Bridge struct {
	transport Transport
	logger    *slog.Logger
	timeout   time.Duration

	mu      sync.Mutex
	pending map[string]chan *protocol.Response
	enabled bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithStartupTimeout overrides the handshake timeout.
func WithStartupTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// New creates a bridge over a transport. Call Start before Call.
func New(transport Transport, logger *slog.Logger, opts ...Option) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		transport: transport,
		logger:    logger.With("component", "bridge"),
		timeout:   DefaultStartupTimeout,
		pending:   make(map[string]chan *protocol.Response),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start performs the startup handshake: it subscribes to lifecycle
// signals, waits for the first one and enables or disables the bridge
// accordingly. On READY it also begins routing responses. Start
// returns an error for LOCK_UNAVAILABLE, INIT_ERROR and timeout; the
// bridge stays disabled in all three cases, so the app keeps running
// with persistence off.
func (b *Bridge) Start(ctx context.Context) error {
	signals := b.transport.Signals(ctx)

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case sig, ok := <-signals:
		if !ok {
			return fmt.Errorf("signal stream closed before startup completed")
		}
		switch sig.Kind {
		case protocol.SignalReady:
			b.mu.Lock()
			b.enabled = true
			b.mu.Unlock()
			go b.route(ctx)
			b.logger.Info("bridge enabled")
			return nil
		case protocol.SignalLockUnavailable:
			b.logger.Warn("bridge disabled", "reason", sig.Kind, "message", sig.Message)
			return fmt.Errorf("%w: %s", ErrDisabled, sig.Message)
		default:
			b.logger.Error("bridge disabled", "reason", sig.Kind, "message", sig.Message)
			return fmt.Errorf("%w: %s", ErrDisabled, sig.Message)
		}
	case <-timer.C:
		b.logger.Error("startup handshake timed out", "timeout", b.timeout)
		return ErrStartupTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call sends one operation and blocks until its response arrives or
// ctx is cancelled. The payload is marshalled into the request;
// the response's data is returned raw for the caller to decode.
// A response with ok=false becomes an error.
func (b *Bridge) Call(ctx context.Context, op protocol.Op, payload any) (json.RawMessage, error) {
	b.mu.Lock()
	if !b.enabled {
		b.mu.Unlock()
		return nil, ErrDisabled
	}
	b.mu.Unlock()

	req := &protocol.Request{ID: uuid.New().String(), Op: op}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		req.Payload = data
	}

	ch := b.createPending(req.ID)
	defer b.closePending(req.ID)

	if err := b.transport.Send(ctx, req); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("request %s abandoned", req.ID)
		}
		if !resp.OK {
			return nil, fmt.Errorf("%s: %s", op, resp.Error)
		}
		return resp.Data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// route delivers responses to their pending requests until ctx ends.
// Responses with no matching pending entry are logged and discarded;
// they are late arrivals for calls that already gave up.
func (b *Bridge) route(ctx context.Context) {
	responses := b.transport.Responses()
	for {
		select {
		case <-ctx.Done():
			b.failAllPending()
			return
		case resp, ok := <-responses:
			if !ok {
				b.failAllPending()
				return
			}
			b.deliver(resp)
		}
	}
}

// deliver routes one response. The send happens under the lock so a
// concurrent closePending cannot close the channel mid-send; the
// channel is buffered for its single response, so the send never
// blocks.
func (b *Bridge) deliver(resp *protocol.Response) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.pending[resp.ID]
	if !ok {
		b.logger.Warn("response for unknown request", "request_id", resp.ID)
		return
	}

	select {
	case ch <- resp:
	default:
		b.logger.Warn("pending channel full, dropping response", "request_id", resp.ID)
	}
}

func (b *Bridge) createPending(id string) <-chan *protocol.Response {
	ch := make(chan *protocol.Response, 1)
	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()
	return ch
}

func (b *Bridge) closePending(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.pending[id]; ok {
		delete(b.pending, id)
		close(ch)
	}
}

// failAllPending disables the bridge and releases every waiter.
func (b *Bridge) failAllPending() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = false
	for id, ch := range b.pending {
		delete(b.pending, id)
		close(ch)
	}
}
