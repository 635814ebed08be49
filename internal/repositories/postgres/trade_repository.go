package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TradeRepository struct {
	pool *pgxpool.Pool
}

func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

func (r *TradeRepository) BulkCreate(ctx context.Context, trades []*models.TradeEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO trades (
            buyer_id, seller_id, ingredient, hour, recorded_at,
            pounds, price_per_pound, hour_created
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, t := range trades {
		_, err = tx.Exec(ctx, stmt,
			t.BuyerID,
			t.SellerID,
			t.Ingredient,
			t.Hour,
			time.Unix(t.Timestamp, 0).UTC(),
			t.Pounds,
			decimal.NewFromFloat(t.PricePerPound).Round(4),
			t.HourCreated,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *TradeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM trades").Scan(&count)
	return count, err
}

func (r *TradeRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE trades")
	return err
}
