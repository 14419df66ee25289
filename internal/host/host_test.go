// ABOUTME: Tests for the host actor: startup signals, serving and shutdown
// ABOUTME: Covers READY, LOCK_UNAVAILABLE and the closed-host Submit path

package host

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendril-app/tendril/internal/engine"
	"github.com/tendril-app/tendril/internal/protocol"
	"github.com/tendril-app/tendril/internal/signal"
)

func startTestHost(t *testing.T, path string) (*Host, <-chan protocol.Signal, context.CancelFunc) {
	t.Helper()
	broadcaster := signal.NewBroadcaster(nil)
	t.Cleanup(broadcaster.Close)

	h := New(path, broadcaster, nil)
	ctx, cancel := context.WithCancel(context.Background())
	sigCh, _ := broadcaster.Subscribe(ctx)
	go func() { _ = h.Run(ctx) }()
	return h, sigCh, cancel
}

func waitSignal(t *testing.T, ch <-chan protocol.Signal) protocol.Signal {
	t.Helper()
	select {
	case sig := <-ch:
		return sig
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for lifecycle signal")
		return protocol.Signal{}
	}
}

func TestHost_PublishesReady(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	_, sigCh, cancel := startTestHost(t, path)
	defer cancel()

	sig := waitSignal(t, sigCh)
	assert.Equal(t, protocol.SignalReady, sig.Kind)
}

func TestHost_ServesRequests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	h, sigCh, cancel := startTestHost(t, path)
	defer cancel()

	require.Equal(t, protocol.SignalReady, waitSignal(t, sigCh).Kind)

	payload, err := json.Marshal(&protocol.CreateHabitParams{
		Name:     "Meditate",
		Type:     protocol.HabitBoolean,
		Schedule: protocol.ScheduleParams{ScheduleType: protocol.ScheduleDaily},
	})
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, h.Submit(ctx, &protocol.Request{
		ID:      "r1",
		Op:      protocol.OpHabitCreate,
		Payload: payload,
	}))

	select {
	case resp := <-h.Responses():
		require.True(t, resp.OK, "request failed: %s", resp.Error)
		assert.Equal(t, "r1", resp.ID)
		var habit protocol.Habit
		require.NoError(t, json.Unmarshal(resp.Data, &habit))
		assert.Equal(t, "Meditate", habit.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
	}
}

func TestHost_LockUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	// Hold the store from outside so the host cannot acquire it.
	eng, err := engine.Open(path)
	require.NoError(t, err)
	defer eng.Close()

	broadcaster := signal.NewBroadcaster(nil)
	defer broadcaster.Close()
	h := New(path, broadcaster, nil)

	ctx := t.Context()
	sigCh, _ := broadcaster.Subscribe(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Run(ctx) }()

	sig := waitSignal(t, sigCh)
	assert.Equal(t, protocol.SignalLockUnavailable, sig.Kind)

	select {
	case runErr := <-errCh:
		assert.ErrorIs(t, runErr, engine.ErrLocked)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after lock failure")
	}

	// The host never starts serving; submits fail fast.
	err = h.Submit(ctx, &protocol.Request{ID: "r1", Op: protocol.OpHabitList})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestHost_InitError(t *testing.T) {
	// A regular file where the store directory should be forces an
	// init failure that is not a lock conflict.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	path := filepath.Join(blocker, "test.db")

	broadcaster := signal.NewBroadcaster(nil)
	defer broadcaster.Close()
	h := New(path, broadcaster, nil)

	ctx := t.Context()
	sigCh, _ := broadcaster.Subscribe(ctx)

	go func() { _ = h.Run(ctx) }()

	sig := waitSignal(t, sigCh)
	assert.Equal(t, protocol.SignalInitError, sig.Kind)
	assert.NotEmpty(t, sig.Message)
}

func TestHost_SubmitAfterShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	h, sigCh, cancel := startTestHost(t, path)

	require.Equal(t, protocol.SignalReady, waitSignal(t, sigCh).Kind)
	cancel()

	// Shutdown is observed via the closed flag; poll briefly.
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := h.Submit(context.Background(), &protocol.Request{ID: "r1", Op: protocol.OpHabitList})
		if errors.Is(err, ErrClosed) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Submit never started failing after shutdown")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
