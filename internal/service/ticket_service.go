package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/events"
	"github.com/sakalaundry/laundry-api/internal/repository"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// TicketService coordinates the support ticket workflow. Intake is public;
// everything else is an admin action.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes the public intake payload.
type TicketCreateInput struct {
	UserName string
	Mobile   string
	OrderID  string
	Issue    string
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// CreateTicket accepts a support request from the public widget. No
// authentication is required. The new ticket is announced on the admin
// channel after the write commits.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	name := strings.TrimSpace(input.UserName)
	issue := strings.TrimSpace(input.Issue)
	mobile := domain.NormalizePhone(input.Mobile)
	if name == "" || mobile == "" || issue == "" {
		return nil, apperrors.NewValidationError("name, mobile and issue are required", nil)
	}

	ticket := &domain.Ticket{
		UserName: name,
		Mobile:   mobile,
		OrderID:  strings.TrimSpace(input.OrderID),
		Issue:    issue,
		Status:   domain.TicketStatusPending,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TicketEvent(events.EventTicketCreated, ticket))
	return ticket, nil
}

// AdminListTickets returns every ticket with its reply log.
func (s *TicketService) AdminListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// AdminReply appends an admin reply to the ticket's log and moves the
// ticket to Contacted. Replies are append-only.
func (s *TicketService) AdminReply(ctx context.Context, ticketID, message string) (*domain.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", map[string]any{"field": "message"})
	}

	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	reply := &domain.TicketReply{
		TicketID: ticketID,
		Sender:   domain.ReplySenderAdmin,
		Message:  message,
	}
	if err := s.tickets.AddReply(ctx, reply); err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusContacted); err != nil {
		return nil, err
	}

	return s.reload(ctx, ticketID)
}

// AdminClose moves a ticket to Resolved regardless of its prior state.
func (s *TicketService) AdminClose(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.setStatus(ctx, ticketID, domain.TicketStatusResolved)
}

// AdminSetStatus directly sets a canonical status, bypassing the
// reply/close helpers.
func (s *TicketService) AdminSetStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(status) {
		return nil, apperrors.NewInvalidStatus(ticketStatusNames())
	}
	return s.setStatus(ctx, ticketID, status)
}

func (s *TicketService) setStatus(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if err := s.tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return s.reload(ctx, ticketID)
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

// reload fetches the post-mutation document and announces it.
func (s *TicketService) reload(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TicketEvent(events.EventTicketUpdated, ticket))
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func ticketStatusNames() []string {
	names := make([]string, len(domain.TicketStatuses))
	for i, ts := range domain.TicketStatuses {
		names[i] = string(ts)
	}
	return names
}
