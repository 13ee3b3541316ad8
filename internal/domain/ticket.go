package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "Pending"
	TicketStatusContacted TicketStatus = "Contacted"
	TicketStatusResolved  TicketStatus = "Resolved"
)

// TicketStatuses lists the canonical ticket statuses.
var TicketStatuses = []TicketStatus{TicketStatusPending, TicketStatusContacted, TicketStatusResolved}

// ValidTicketStatus reports whether s is a canonical ticket status.
func ValidTicketStatus(s TicketStatus) bool {
	for _, ts := range TicketStatuses {
		if s == ts {
			return true
		}
	}
	return false
}

// ReplySender tags who authored a ticket reply.
type ReplySender string

const (
	ReplySenderCustomer ReplySender = "customer"
	ReplySenderAdmin    ReplySender = "admin"
)

// TicketReply is one entry in a ticket's append-only reply log.
type TicketReply struct {
	ID        string      `json:"id"`
	TicketID  string      `json:"ticketId"`
	Sender    ReplySender `json:"sender"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Ticket is the aggregate for support requests raised through the public
// intake widget. OrderID is free-form and optional.
type Ticket struct {
	ID        string        `json:"id"`
	UserName  string        `json:"userName"`
	Mobile    string        `json:"mobile"`
	OrderID   string        `json:"orderId"`
	Issue     string        `json:"issue"`
	Status    TicketStatus  `json:"status"`
	Replies   []TicketReply `json:"replies"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
