// ABOUTME: Engine host actor owning the store and serializing all commands
// ABOUTME: Broadcasts READY, LOCK_UNAVAILABLE or INIT_ERROR once during startup

package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/tendril-app/tendril/internal/engine"
	"github.com/tendril-app/tendril/internal/protocol"
	"github.com/tendril-app/tendril/internal/signal"
)

// mailboxSize bounds queued requests. Submitters block once the host
// falls this far behind rather than growing without limit.
const mailboxSize = 256

// ErrClosed is returned by Submit after the host has shut down.
var ErrClosed = errors.New("host is closed")

// Host owns an Engine exclusively and processes requests one at a
// time from its mailbox. The engine is never touched from any other
// goroutine, which is what makes the single-connection store safe.
// Startup publishes exactly one lifecycle signal; LOCK_UNAVAILABLE and
// INIT_ERROR are terminal.
type Host struct {
	path       string
	signals    *signal.Broadcaster
	logger     *slog.Logger
	mailbox    chan *protocol.Request
	responses  chan *protocol.Response
	dispatcher *Dispatcher

	mu     sync.Mutex
	closed bool
}

// New creates a host for the store at path. Run must be called before
// any Submit is answered.
func New(path string, signals *signal.Broadcaster, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		path:      path,
		signals:   signals,
		logger:    logger.With("component", "host"),
		mailbox:   make(chan *protocol.Request, mailboxSize),
		responses: make(chan *protocol.Response, mailboxSize),
	}
}

// Responses is the stream of replies. Every submitted request yields
// exactly one response here, in completion order.
func (h *Host) Responses() <-chan *protocol.Response {
	return h.responses
}

// Submit queues a request. Blocks when the mailbox is full; fails with
// ErrClosed after shutdown and with the context's error on cancel.
func (h *Host) Submit(ctx context.Context, req *protocol.Request) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.mu.Unlock()

	select {
	case h.mailbox <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run opens the store, announces the outcome and then serves the
// mailbox until ctx is cancelled. One request is processed at a time;
// a failing command becomes a failed response, never a crash. Returns
// the startup error when initialization fails.
func (h *Host) Run(ctx context.Context) error {
	eng, err := engine.Open(h.path)
	if err != nil {
		h.markClosed()
		if errors.Is(err, engine.ErrLocked) {
			h.logger.Warn("store lock unavailable", "path", h.path)
			h.signals.Publish(protocol.Signal{
				Kind:    protocol.SignalLockUnavailable,
				Message: "another instance holds the store lock",
			})
			return err
		}
		h.logger.Error("store initialization failed", "path", h.path, "error", err)
		h.signals.Publish(protocol.Signal{
			Kind:    protocol.SignalInitError,
			Message: err.Error(),
		})
		return err
	}
	defer eng.Close()

	h.dispatcher = NewDispatcher(eng, h.logger)
	h.signals.Publish(protocol.Signal{Kind: protocol.SignalReady})
	h.logger.Info("host ready", "path", h.path)

	for {
		select {
		case <-ctx.Done():
			h.markClosed()
			h.drain()
			return nil
		case req := <-h.mailbox:
			h.serve(ctx, req)
		}
	}
}

func (h *Host) serve(ctx context.Context, req *protocol.Request) {
	resp := h.dispatcher.Dispatch(ctx, req)
	select {
	case h.responses <- resp:
	case <-ctx.Done():
	}
}

// drain answers whatever was queued before shutdown so no submitter
// waits forever on a response that will never come.
func (h *Host) drain() {
	for {
		select {
		case req := <-h.mailbox:
			resp := protocol.Fail(req.ID, "host shutting down")
			select {
			case h.responses <- resp:
			default:
				return
			}
		default:
			return
		}
	}
}

func (h *Host) markClosed() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}
