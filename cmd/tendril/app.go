// ABOUTME: Per-command session setup for the tendril CLI
// ABOUTME: Loads config, builds the configured transport and starts the bridge

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendril-app/tendril/internal/bridge"
	"github.com/tendril-app/tendril/internal/config"
	"github.com/tendril-app/tendril/internal/host"
	"github.com/tendril-app/tendril/internal/signal"
)

// session holds everything a command needs to talk to the engine.
type session struct {
	cfg    *config.Config
	client *bridge.Client
	logger *slog.Logger

	shutdown func()
}

// openSession loads configuration, stands up the configured transport
// and performs the bridge handshake. The caller must call shutdown when
// done, typically via defer.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	var (
		transport bridge.Transport
		cleanup   func()
	)

	switch cfg.Bridge.Transport {
	case config.TransportDirect:
		dt := bridge.NewDirectTransport(cfg.Database.Path, logger)
		transport = dt
		cleanup = func() {
			_ = dt.Close()
		}

	default:
		broadcaster := signal.NewBroadcaster(logger)
		h := host.New(cfg.Database.Path, broadcaster, logger)
		hostCtx, cancel := context.WithCancel(context.Background())
		go func() {
			if err := h.Run(hostCtx); err != nil {
				logger.Debug("host stopped", "error", err)
			}
		}()
		transport = bridge.NewHostTransport(h, broadcaster)
		cleanup = func() {
			cancel()
			broadcaster.Close()
		}
	}

	b := bridge.New(transport, logger, bridge.WithStartupTimeout(cfg.Bridge.StartupTimeout))
	if err := b.Start(ctx); err != nil {
		cleanup()
		return nil, err
	}

	return &session{
		cfg:      cfg,
		client:   bridge.NewClient(b),
		logger:   logger,
		shutdown: cleanup,
	}, nil
}
