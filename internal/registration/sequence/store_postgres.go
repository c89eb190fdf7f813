package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"concours/pkg/sentinel"
)

// PostgresCounterStore persists per-day counters in the sequence_counters
// table. The upsert-returning statement makes increment-and-read one atomic
// unit under row-level locking, so concurrent first-of-day callers neither
// duplicate values nor race the insert.
type PostgresCounterStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCounterStore(pool *pgxpool.Pool) *PostgresCounterStore {
	return &PostgresCounterStore{pool: pool}
}

const nextCounterSQL = `
INSERT INTO sequence_counters (date_key, value)
VALUES ($1, 1)
ON CONFLICT (date_key) DO UPDATE SET value = sequence_counters.value + 1
RETURNING value`

func (s *PostgresCounterStore) Next(ctx context.Context, dateKey string) (int64, error) {
	var value int64
	if err := s.pool.QueryRow(ctx, nextCounterSQL, dateKey).Scan(&value); err != nil {
		return 0, fmt.Errorf("increment sequence counter %q: %w: %w", dateKey, sentinel.ErrUnavailable, err)
	}
	return value, nil
}
