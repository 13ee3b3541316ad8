package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/sakalaundry/laundry-api/internal/events"
	"github.com/sakalaundry/laundry-api/internal/observability"
)

// Envelope is the wire format for admin channel messages.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Bridge subscribes to the event bus and forwards every admin channel
// event to the hub. It is the sole consumer of domain events.
type Bridge struct {
	hub     *Hub
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewBridge creates the bridge.
func NewBridge(hub *Hub, metrics *observability.Metrics, logger *zap.Logger) *Bridge {
	return &Bridge{hub: hub, metrics: metrics, logger: logger}
}

// RegisterHandlers subscribes to every event in the admin channel set.
func (b *Bridge) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventOrderCreated,
		events.EventOrderUpdated,
		events.EventOrderDeleted,
		events.EventTicketCreated,
		events.EventTicketUpdated,
	} {
		dispatcher.Subscribe(eventType, b.handle)
	}
}

func (b *Bridge) handle(_ context.Context, event events.Event) error {
	message, err := json.Marshal(Envelope{Event: string(event.Type), Data: event.Payload})
	if err != nil {
		b.logger.Error("failed to encode admin event", zap.String("event", string(event.Type)), zap.Error(err))
		return err
	}
	b.hub.Broadcast(message)
	b.metrics.RecordBroadcast(string(event.Type))
	return nil
}
