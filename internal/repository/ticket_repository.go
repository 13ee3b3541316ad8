package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakalaundry/laundry-api/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Replies live in their
// own table and are always returned ordered by submission time.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	AddReply(ctx context.Context, reply *domain.TicketReply) error
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, user_name, mobile, order_id, issue, status, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_name, mobile, order_id, issue, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.UserName,
		ticket.Mobile,
		ticket.OrderID,
		ticket.Issue,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id).Scan(
		&ticket.ID,
		&ticket.UserName,
		&ticket.Mobile,
		&ticket.OrderID,
		&ticket.Issue,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}

	replies, err := r.repliesFor(ctx, []string{ticket.ID})
	if err != nil {
		return nil, err
	}
	ticket.Replies = replies[ticket.ID]
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	ids := []string{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserName,
			&ticket.Mobile,
			&ticket.OrderID,
			&ticket.Issue,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
		ids = append(ids, ticket.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return result, nil
	}
	replies, err := r.repliesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Replies = replies[result[i].ID]
	}
	return result, nil
}

func (r *ticketRepository) repliesFor(ctx context.Context, ticketIDs []string) (map[string][]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, sender, message, created_at
        FROM ticket_replies
        WHERE ticket_id = ANY($1)
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]domain.TicketReply)
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(&reply.ID, &reply.TicketID, &reply.Sender, &reply.Message, &reply.CreatedAt); err != nil {
			return nil, err
		}
		grouped[reply.TicketID] = append(grouped[reply.TicketID], reply)
	}
	return grouped, rows.Err()
}

func (r *ticketRepository) AddReply(ctx context.Context, reply *domain.TicketReply) error {
	const query = `
        INSERT INTO ticket_replies (ticket_id, sender, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		reply.TicketID,
		reply.Sender,
		reply.Message,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
