package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) BulkCreate(ctx context.Context, snapshots []*models.LedgerSnapshotEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO ledger_snapshots (
            restaurant_id, restaurant_name, ingredient, hour, recorded_at,
            profit, hours_without, waste, avg_freshness, stock
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (restaurant_id, ingredient, hour) DO NOTHING`

	for _, s := range snapshots {
		_, err = tx.Exec(ctx, stmt,
			s.RestaurantID,
			s.RestaurantName,
			s.Ingredient,
			s.Hour,
			time.Unix(s.Timestamp, 0).UTC(),
			decimal.NewFromFloat(s.Profit).Round(4),
			s.HoursWithout,
			s.Waste,
			s.AvgFreshness,
			s.Stock,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *SnapshotRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM ledger_snapshots").Scan(&count)
	return count, err
}

func (r *SnapshotRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE ledger_snapshots")
	return err
}
