package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceName identifies the order number counter.
const SequenceOrderNumber = "orderNumber"

// SequenceRepository issues strictly increasing, collision-free numbers.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository returns a Postgres-backed implementation.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

// Next atomically increments the named counter and returns the new value.
// The counter row is created on first use. The read-modify-write happens
// entirely inside the store; application code never reads then writes.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	const query = `
        INSERT INTO sequences (name, value) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
        RETURNING value`

	var value int64
	if err := r.pool.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
