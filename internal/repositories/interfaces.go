package repositories

import (
	"context"

	"github.com/chrisdamba/freshsim/internal/models"
)

type SnapshotRepository interface {
	BulkCreate(ctx context.Context, snapshots []*models.LedgerSnapshotEvent) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type TradeRepository interface {
	BulkCreate(ctx context.Context, trades []*models.TradeEvent) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
