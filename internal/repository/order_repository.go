package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakalaundry/laundry-api/internal/domain"
)

// StatusCounts aggregates order totals for the admin dashboard.
type StatusCounts struct {
	Total      int64
	Pending    int64
	InProgress int64
	Delivering int64
	Completed  int64
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
	ListAllWithOwners(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	DeleteByID(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `o.id, o.order_number, o.user_id, o.service, o.cloth_types, o.pickup_address,
               o.lat, o.lng, o.phone, o.notes, o.pickup_date, o.pickup_time, o.delivery,
               o.status, o.created_at, o.updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (order_number, user_id, service, cloth_types, pickup_address,
                            lat, lng, phone, notes, pickup_date, pickup_time, delivery, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.OrderNumber,
		order.UserID,
		order.Service,
		order.ClothTypes,
		order.PickupAddress,
		order.Lat,
		order.Lng,
		order.Phone,
		order.Notes,
		order.PickupDate,
		order.PickupTime,
		order.Delivery,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.user_id=$1 ORDER BY o.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows, false)
}

// DeleteByIDAndUser removes an order only when it belongs to the caller.
// A miss on either id or ownership looks the same: pgx.ErrNoRows.
func (r *orderRepository) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) ListAllWithOwners(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `, u.name, u.email, u.phone
              FROM orders o JOIN users u ON u.id = o.user_id
              ORDER BY o.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows, true)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	const query = `
        UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2
        RETURNING id`
	var updatedID string
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(&updatedID); err != nil {
		return nil, err
	}
	return r.getWithOwner(ctx, updatedID)
}

func (r *orderRepository) getWithOwner(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + `, u.name, u.email, u.phone
              FROM orders o JOIN users u ON u.id = o.user_id
              WHERE o.id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders, err := scanOrders(rows, true)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &orders[0], nil
}

func (r *orderRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) (*StatusCounts, error) {
	const query = `
        SELECT count(*),
               count(*) FILTER (WHERE status='Pending'),
               count(*) FILTER (WHERE status='In Progress'),
               count(*) FILTER (WHERE status='Delivering'),
               count(*) FILTER (WHERE status='Completed')
        FROM orders`
	var counts StatusCounts
	if err := r.pool.QueryRow(ctx, query).Scan(
		&counts.Total,
		&counts.Pending,
		&counts.InProgress,
		&counts.Delivering,
		&counts.Completed,
	); err != nil {
		return nil, err
	}
	return &counts, nil
}

func scanOrders(rows pgx.Rows, withOwner bool) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		dest := []any{
			&order.ID,
			&order.OrderNumber,
			&order.UserID,
			&order.Service,
			&order.ClothTypes,
			&order.PickupAddress,
			&order.Lat,
			&order.Lng,
			&order.Phone,
			&order.Notes,
			&order.PickupDate,
			&order.PickupTime,
			&order.Delivery,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		}
		if withOwner {
			dest = append(dest, &order.OwnerName, &order.OwnerEmail, &order.OwnerPhone)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
