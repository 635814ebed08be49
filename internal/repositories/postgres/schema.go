package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_snapshots (
    restaurant_id   TEXT NOT NULL,
    restaurant_name TEXT NOT NULL,
    ingredient      TEXT NOT NULL,
    hour            BIGINT NOT NULL,
    recorded_at     TIMESTAMPTZ NOT NULL,
    profit          NUMERIC(14, 4) NOT NULL,
    hours_without   DOUBLE PRECISION NOT NULL,
    waste           DOUBLE PRECISION NOT NULL,
    avg_freshness   DOUBLE PRECISION NOT NULL,
    stock           DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (restaurant_id, ingredient, hour)
);

CREATE TABLE IF NOT EXISTS trades (
    id              BIGSERIAL PRIMARY KEY,
    buyer_id        TEXT NOT NULL,
    seller_id       TEXT NOT NULL,
    ingredient      TEXT NOT NULL,
    hour            BIGINT NOT NULL,
    recorded_at     TIMESTAMPTZ NOT NULL,
    pounds          DOUBLE PRECISION NOT NULL,
    price_per_pound NUMERIC(10, 4) NOT NULL,
    hour_created    BIGINT NOT NULL
);`

// EnsureSchema creates the simulator tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
