// ABOUTME: Tests for lifecycle signal fan-out pub/sub
// ABOUTME: Covers subscribe, publish, late-subscriber replay and cancellation

package signal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestBroadcaster_SingleSubscriberReceivesSignal(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ch, _ := b.Subscribe(t.Context())

	b.Publish(protocol.Signal{Kind: protocol.SignalReady})

	select {
	case sig := <-ch:
		assert.Equal(t, protocol.SignalReady, sig.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal")
	}
}

func TestBroadcaster_MultipleSubscribersReceiveSameSignal(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ctx := t.Context()
	ch1, _ := b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)

	b.Publish(protocol.Signal{Kind: protocol.SignalInitError, Message: "boom"})

	for _, ch := range []<-chan protocol.Signal{ch1, ch2} {
		select {
		case sig := <-ch:
			assert.Equal(t, protocol.SignalInitError, sig.Kind)
			assert.Equal(t, "boom", sig.Message)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for signal")
		}
	}
}

func TestBroadcaster_LateSubscriberSeesLastSignal(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	b.Publish(protocol.Signal{Kind: protocol.SignalReady})

	// Subscribing after the one-shot startup signal must still see it.
	ch, _ := b.Subscribe(t.Context())
	select {
	case sig := <-ch:
		assert.Equal(t, protocol.SignalReady, sig.Kind)
	case <-time.After(time.Second):
		t.Fatal("late subscriber never saw the startup signal")
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ch, subID := b.Subscribe(t.Context())
	b.Unsubscribe(subID)

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel should be closed after unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestBroadcaster_ContextCancelCleansUp(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel should close after context cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestBroadcaster_PublishRacesUnsubscribe(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	// Publishing while subscribers are torn down must never send on a
	// closed channel.
	const rounds = 200
	subIDs := make([]string, rounds)
	for i := range subIDs {
		_, subIDs[i] = b.Subscribe(context.Background())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, id := range subIDs {
			b.Unsubscribe(id)
		}
	}()

	for i := 0; i < rounds; i++ {
		b.Publish(protocol.Signal{Kind: protocol.SignalReady})
	}
	<-done
}

func TestBroadcaster_PublishAfterClose(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, _ := b.Subscribe(t.Context())
	b.Close()

	// Must not panic; the subscriber channel is already closed.
	b.Publish(protocol.Signal{Kind: protocol.SignalReady})

	_, open := <-ch
	assert.False(t, open)
}
