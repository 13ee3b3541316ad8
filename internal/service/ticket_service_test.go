package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/events"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// fakeTicketRepo keeps tickets and their reply logs in memory.
type fakeTicketRepo struct {
	mu      sync.Mutex
	nextID  int
	tickets map[string]*domain.Ticket
	replies map[string][]domain.TicketReply
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[string]*domain.Ticket),
		replies: make(map[string][]domain.TicketReply),
	}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	copied.Replies = append([]domain.TicketReply{}, r.replies[id]...)
	return &copied, nil
}

func (r *fakeTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for id, ticket := range r.tickets {
		copied := *ticket
		copied.Replies = append([]domain.TicketReply{}, r.replies[id]...)
		result = append(result, copied)
	}
	return result, nil
}

func (r *fakeTicketRepo) AddReply(_ context.Context, reply *domain.TicketReply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[reply.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	r.nextID++
	reply.ID = fmt.Sprintf("reply-%d", r.nextID)
	reply.CreatedAt = time.Now()
	r.replies[reply.TicketID] = append(r.replies[reply.TicketID], *reply)
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return nil
}

func newTicketFixture(t *testing.T) (*TicketService, *fakeTicketRepo, *eventRecorder) {
	t.Helper()
	repo := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	recorder.subscribe(dispatcher, events.EventTicketCreated, events.EventTicketUpdated)
	return NewTicketService(repo, dispatcher), repo, recorder
}

func TestCreateTicketNormalizesMobile(t *testing.T) {
	svc, _, recorder := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		UserName: "  Sara  ",
		Mobile:   "+98 (912) 345-6789",
		OrderID:  " 1042 ",
		Issue:    "Missing a shirt from my last pickup.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sara", ticket.UserName)
	assert.Equal(t, "989123456789", ticket.Mobile)
	assert.Equal(t, "1042", ticket.OrderID)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)

	published := recorder.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
}

func TestCreateTicketRequiresFields(t *testing.T) {
	svc, _, recorder := newTicketFixture(t)

	cases := []struct {
		name  string
		input TicketCreateInput
	}{
		{"missing name", TicketCreateInput{Mobile: "0912", Issue: "broken zipper"}},
		{"missing issue", TicketCreateInput{UserName: "Sara", Mobile: "0912"}},
		{"mobile with no digits", TicketCreateInput{UserName: "Sara", Mobile: "call me", Issue: "late pickup"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTicket(context.Background(), tc.input)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
	assert.Empty(t, recorder.all())
}

func TestAdminReplyAppendsAndContacts(t *testing.T) {
	svc, _, recorder := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		UserName: "Sara", Mobile: "0912", Issue: "late pickup",
	})
	require.NoError(t, err)

	updated, err := svc.AdminReply(context.Background(), ticket.ID, "We are on it.")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusContacted, updated.Status)
	require.Len(t, updated.Replies, 1)
	assert.Equal(t, domain.ReplySenderAdmin, updated.Replies[0].Sender)
	assert.Equal(t, "We are on it.", updated.Replies[0].Message)

	// A second reply appends rather than replaces.
	updated, err = svc.AdminReply(context.Background(), ticket.ID, "Driver dispatched.")
	require.NoError(t, err)
	assert.Len(t, updated.Replies, 2)

	published := recorder.all()
	require.Len(t, published, 3)
	assert.Equal(t, events.EventTicketUpdated, published[1].Type)
	assert.Equal(t, events.EventTicketUpdated, published[2].Type)
}

func TestAdminReplyValidation(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		UserName: "Sara", Mobile: "0912", Issue: "late pickup",
	})
	require.NoError(t, err)

	_, err = svc.AdminReply(context.Background(), ticket.ID, "   ")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	_, err = svc.AdminReply(context.Background(), "no-such-ticket", "hello")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAdminCloseResolvesFromAnyState(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		UserName: "Sara", Mobile: "0912", Issue: "late pickup",
	})
	require.NoError(t, err)

	// Close straight from Pending, without any reply first.
	updated, err := svc.AdminClose(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	_, err = svc.AdminClose(context.Background(), "no-such-ticket")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAdminSetTicketStatus(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		UserName: "Sara", Mobile: "0912", Issue: "late pickup",
	})
	require.NoError(t, err)

	updated, err := svc.AdminSetStatus(context.Background(), ticket.ID, domain.TicketStatusContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusContacted, updated.Status)

	_, err = svc.AdminSetStatus(context.Background(), ticket.ID, domain.TicketStatus("Escalated"))
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}
