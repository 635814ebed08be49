package output

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/rs/xid"
)

// SQLiteOutput writes snapshots and trades into a fresh SQLite file per run.
type SQLiteOutput struct {
	*sql.DB
	snapshotStatement *sql.Stmt
	tradeStatement    *sql.Stmt

	path      string
	batchSize int

	snapshotsToWrite []models.LedgerSnapshotEvent
	tradesToWrite    []models.TradeEvent
}

// NewSQLiteOutput creates dir/freshsim_<xid>.sqlite3 with both tables.
func NewSQLiteOutput(dir string, batchSize int) (*SQLiteOutput, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	s := &SQLiteOutput{
		path:      filepath.Join(dir, "freshsim_"+xid.New().String()+".sqlite3"),
		batchSize: batchSize,
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	s.DB = db

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path is the database file being written.
func (s *SQLiteOutput) Path() string {
	return s.path
}

func (s *SQLiteOutput) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger_snapshots (
			restaurant_id   TEXT NOT NULL,
			restaurant_name TEXT,
			ingredient      TEXT NOT NULL,
			hour            INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			profit          REAL,
			hours_without   REAL,
			waste           REAL,
			avg_freshness   REAL,
			stock           REAL,
			PRIMARY KEY (restaurant_id, ingredient, hour)
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			buyer_id        TEXT NOT NULL,
			seller_id       TEXT NOT NULL,
			ingredient      TEXT NOT NULL,
			hour            INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			pounds          REAL,
			price_per_pound REAL,
			hour_created    INTEGER
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *SQLiteOutput) prepareStatements() error {
	var err error
	s.snapshotStatement, err = s.Prepare(`INSERT OR IGNORE INTO ledger_snapshots VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot statement: %w", err)
	}
	s.tradeStatement, err = s.Prepare(`INSERT INTO trades VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare trade statement: %w", err)
	}
	return nil
}

func (s *SQLiteOutput) WriteMessage(topic string, msg []byte) error {
	switch topic {
	case models.TopicLedgerSnapshots:
		var event models.LedgerSnapshotEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return fmt.Errorf("failed to decode %s message: %w", topic, err)
		}
		s.snapshotsToWrite = append(s.snapshotsToWrite, event)
		if len(s.snapshotsToWrite) >= s.batchSize {
			return s.Flush()
		}
	case models.TopicTrades:
		var event models.TradeEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return fmt.Errorf("failed to decode %s message: %w", topic, err)
		}
		s.tradesToWrite = append(s.tradesToWrite, event)
		if len(s.tradesToWrite) >= s.batchSize {
			return s.Flush()
		}
	default:
		return fmt.Errorf("unknown topic: %s", topic)
	}
	return nil
}

// Flush writes everything buffered in one transaction.
func (s *SQLiteOutput) Flush() error {
	if len(s.snapshotsToWrite) == 0 && len(s.tradesToWrite) == 0 {
		return nil
	}

	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	snapshotStmt := tx.Stmt(s.snapshotStatement)
	for _, e := range s.snapshotsToWrite {
		_, err := snapshotStmt.Exec(
			e.RestaurantID, e.RestaurantName, e.Ingredient, e.Hour, e.Timestamp,
			e.Profit, e.HoursWithout, e.Waste, e.AvgFreshness, e.Stock,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	tradeStmt := tx.Stmt(s.tradeStatement)
	for _, e := range s.tradesToWrite {
		_, err := tradeStmt.Exec(
			e.BuyerID, e.SellerID, e.Ingredient, e.Hour, e.Timestamp,
			e.Pounds, e.PricePerPound, e.HourCreated,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.snapshotsToWrite = nil
	s.tradesToWrite = nil
	return nil
}

func (s *SQLiteOutput) Close() error {
	flushErr := s.Flush()
	s.snapshotStatement.Close()
	s.tradeStatement.Close()
	if err := s.DB.Close(); err != nil {
		return err
	}
	return flushErr
}
