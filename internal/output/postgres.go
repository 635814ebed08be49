package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/chrisdamba/freshsim/internal/repositories"
	"github.com/chrisdamba/freshsim/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultBatchSize = 500

// PostgresOutput buffers events per topic and writes them through the repositories in
// batches.
type PostgresOutput struct {
	pool      *pgxpool.Pool
	snapshots repositories.SnapshotRepository
	trades    repositories.TradeRepository
	batchSize int

	pendingSnapshots []*models.LedgerSnapshotEvent
	pendingTrades    []*models.TradeEvent
}

func NewPostgresOutput(ctx context.Context, config *models.DatabaseConfig) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	p := NewRepositoryOutput(postgres.NewSnapshotRepository(pool), postgres.NewTradeRepository(pool), defaultBatchSize)
	p.pool = pool
	if config.ResetTables {
		if err := p.Reset(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return p, nil
}

// NewRepositoryOutput writes through the given repositories without owning a pool.
func NewRepositoryOutput(snapshots repositories.SnapshotRepository, trades repositories.TradeRepository, batchSize int) *PostgresOutput {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &PostgresOutput{
		snapshots: snapshots,
		trades:    trades,
		batchSize: batchSize,
	}
}

// Reset empties both tables so a run starts from a clean slate.
func (p *PostgresOutput) Reset(ctx context.Context) error {
	if err := p.snapshots.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset ledger_snapshots: %w", err)
	}
	if err := p.trades.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset trades: %w", err)
	}
	return nil
}

// Totals returns the number of stored snapshots and trades.
func (p *PostgresOutput) Totals(ctx context.Context) (int, int, error) {
	snapshots, err := p.snapshots.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count ledger_snapshots: %w", err)
	}
	trades, err := p.trades.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return snapshots, trades, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	switch topic {
	case models.TopicLedgerSnapshots:
		var event models.LedgerSnapshotEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return fmt.Errorf("failed to decode %s message: %w", topic, err)
		}
		p.pendingSnapshots = append(p.pendingSnapshots, &event)
		if len(p.pendingSnapshots) >= p.batchSize {
			return p.flushSnapshots(context.Background())
		}
	case models.TopicTrades:
		var event models.TradeEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return fmt.Errorf("failed to decode %s message: %w", topic, err)
		}
		p.pendingTrades = append(p.pendingTrades, &event)
		if len(p.pendingTrades) >= p.batchSize {
			return p.flushTrades(context.Background())
		}
	default:
		return fmt.Errorf("unknown topic: %s", topic)
	}
	return nil
}

func (p *PostgresOutput) flushSnapshots(ctx context.Context) error {
	if len(p.pendingSnapshots) == 0 {
		return nil
	}
	if err := p.snapshots.BulkCreate(ctx, p.pendingSnapshots); err != nil {
		return fmt.Errorf("failed to insert into ledger_snapshots: %w", err)
	}
	p.pendingSnapshots = nil
	return nil
}

func (p *PostgresOutput) flushTrades(ctx context.Context) error {
	if len(p.pendingTrades) == 0 {
		return nil
	}
	if err := p.trades.BulkCreate(ctx, p.pendingTrades); err != nil {
		return fmt.Errorf("failed to insert into trades: %w", err)
	}
	p.pendingTrades = nil
	return nil
}

// Close flushes whatever is still buffered and releases the pool.
func (p *PostgresOutput) Close() error {
	ctx := context.Background()
	snapErr := p.flushSnapshots(ctx)
	tradeErr := p.flushTrades(ctx)
	if snapErr == nil && tradeErr == nil {
		if snapshots, trades, err := p.Totals(ctx); err != nil {
			log.Printf("Error counting stored rows: %v", err)
		} else {
			log.Printf("Postgres holds %d ledger snapshots and %d trades", snapshots, trades)
		}
	}
	if p.pool != nil {
		p.pool.Close()
	}
	if snapErr != nil {
		return snapErr
	}
	return tradeErr
}
