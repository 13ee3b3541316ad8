package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakalaundry/laundry-api/internal/domain"
)

// EventType enumerates the closed set of events on the admin channel.
type EventType string

const (
	EventOrderCreated  EventType = "admin:newOrder"
	EventOrderUpdated  EventType = "admin:orderUpdated"
	EventOrderDeleted  EventType = "admin:orderDeleted"
	EventTicketCreated EventType = "admin:newTicket"
	EventTicketUpdated EventType = "admin:ticketUpdated"
)

// Event is a domain event emitted by the order and ticket services after a
// store write commits. Payload carries the full updated document for order
// and ticket events; deletions carry only the id.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func newEvent(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// OrderEvent wraps the full order document.
func OrderEvent(eventType EventType, order *domain.Order) Event {
	return newEvent(eventType, order)
}

// TicketEvent wraps the full ticket document.
func TicketEvent(eventType EventType, ticket *domain.Ticket) Event {
	return newEvent(eventType, ticket)
}

// DeletedPayload identifies a removed document.
type DeletedPayload struct {
	ID string `json:"id"`
}

// OrderDeletedEvent announces a hard-deleted order.
func OrderDeletedEvent(orderID string) Event {
	return newEvent(EventOrderDeleted, DeletedPayload{ID: orderID})
}
