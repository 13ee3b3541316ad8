package dto

import (
	"time"

	"github.com/sakalaundry/laundry-api/internal/domain"
)

// TicketCreateRequest payload from the public support widget.
type TicketCreateRequest struct {
	UserName string `json:"userName"`
	Mobile   string `json:"mobile"`
	OrderID  string `json:"orderId"`
	Issue    string `json:"issue"`
}

// TicketReplyRequest payload for admin replies.
type TicketReplyRequest struct {
	Message string `json:"message"`
}

// TicketReplyView is one reply log entry.
type TicketReplyView struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketView is the ticket representation returned to clients.
type TicketView struct {
	ID        string            `json:"id"`
	UserName  string            `json:"userName"`
	Mobile    string            `json:"mobile"`
	OrderID   string            `json:"orderId,omitempty"`
	Issue     string            `json:"issue"`
	Status    string            `json:"status"`
	Replies   []TicketReplyView `json:"replies"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ToTicketView maps a domain ticket with its reply log.
func ToTicketView(ticket *domain.Ticket) TicketView {
	replies := make([]TicketReplyView, len(ticket.Replies))
	for i, reply := range ticket.Replies {
		replies[i] = TicketReplyView{
			Sender:    string(reply.Sender),
			Message:   reply.Message,
			CreatedAt: reply.CreatedAt,
		}
	}
	return TicketView{
		ID:        ticket.ID,
		UserName:  ticket.UserName,
		Mobile:    ticket.Mobile,
		OrderID:   ticket.OrderID,
		Issue:     ticket.Issue,
		Status:    string(ticket.Status),
		Replies:   replies,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}

// ToTicketViews maps a slice of tickets.
func ToTicketViews(tickets []domain.Ticket) []TicketView {
	views := make([]TicketView, len(tickets))
	for i := range tickets {
		views[i] = ToTicketView(&tickets[i])
	}
	return views
}
