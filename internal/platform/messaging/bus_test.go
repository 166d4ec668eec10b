package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	eventsv1 "voltic/contracts/events/v1"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan eventsv1.Envelope, 1)
	require.NoError(t, bus.Subscribe(ctx, "credits.ledger", "test-cg", func(_ context.Context, event eventsv1.Envelope) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "credits.ledger", eventsv1.Envelope{EventID: "evt-1", EventType: "credits.debited"}))

	select {
	case event := <-received:
		require.Equal(t, "evt-1", event.EventID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(0, nil)
	require.NoError(t, bus.Publish(context.Background(), "nobody", eventsv1.Envelope{EventID: "evt-2"}))
}
