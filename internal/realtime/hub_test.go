package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/events"
	"github.com/sakalaundry/laundry-api/internal/observability"
)

func newTestHub(buffer int) *Hub {
	return NewHub(buffer, observability.NewMetrics(), zap.NewNop())
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := newTestHub(4)
	first := hub.Register()
	second := hub.Register()
	assert.Equal(t, 2, hub.ClientCount())

	hub.Broadcast([]byte("hello"))

	assert.Equal(t, "hello", string(<-first.Send()))
	assert.Equal(t, "hello", string(<-second.Send()))
}

func TestHubUnregisterClosesQueue(t *testing.T) {
	hub := newTestHub(4)
	client := hub.Register()

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-client.Send()
	assert.False(t, open)

	// A second unregister must be a no-op, not a double close.
	hub.Unregister(client)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := newTestHub(1)
	slow := hub.Register()
	fast := hub.Register()

	hub.Broadcast([]byte("one"))
	assert.Equal(t, "one", string(<-fast.Send()))

	// slow never drained; its queue of one is now full.
	hub.Broadcast([]byte("two"))

	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, "two", string(<-fast.Send()))

	// The slow client's queue was closed with the first message still queued.
	msg, open := <-slow.Send()
	assert.True(t, open)
	assert.Equal(t, "one", string(msg))
	_, open = <-slow.Send()
	assert.False(t, open)
}

func TestHubBroadcastAfterUnregisterIsAtMostOnce(t *testing.T) {
	hub := newTestHub(4)
	client := hub.Register()
	hub.Unregister(client)

	hub.Broadcast([]byte("missed"))

	_, open := <-client.Send()
	assert.False(t, open, "events published after disconnect must not be replayed")
}

func TestBridgeForwardsEnvelopes(t *testing.T) {
	hub := newTestHub(4)
	dispatcher := events.NewInMemoryDispatcher()
	bridge := NewBridge(hub, observability.NewMetrics(), zap.NewNop())
	bridge.RegisterHandlers(dispatcher)

	client := hub.Register()

	order := &domain.Order{ID: "o1", OrderNumber: 7, Status: domain.OrderStatusPending}
	require.NoError(t, dispatcher.Publish(context.Background(), events.OrderEvent(events.EventOrderCreated, order)))

	var envelope struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-client.Send(), &envelope))
	assert.Equal(t, "admin:newOrder", envelope.Event)

	var payload domain.Order
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, "o1", payload.ID)
	assert.EqualValues(t, 7, payload.OrderNumber)
}

func TestBridgeDeletionEnvelope(t *testing.T) {
	hub := newTestHub(4)
	dispatcher := events.NewInMemoryDispatcher()
	NewBridge(hub, observability.NewMetrics(), zap.NewNop()).RegisterHandlers(dispatcher)

	client := hub.Register()

	require.NoError(t, dispatcher.Publish(context.Background(), events.OrderDeletedEvent("o9")))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(<-client.Send(), &envelope))
	assert.Equal(t, "admin:orderDeleted", envelope.Event)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "o9", data["id"])
}
