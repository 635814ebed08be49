package models

const (
	TopicLedgerSnapshots = "ledger_snapshot_events"
	TopicTrades          = "trade_events"

	EventLedgerSnapshot = "LedgerSnapshot"
	EventTrade          = "Trade"

	OutputFormatConsole  = "console"
	OutputFormatJSON     = "json"
	OutputFormatCSV      = "csv"
	OutputFormatParquet  = "parquet"
	OutputFormatPostgres = "postgres"
	OutputFormatSQLite   = "sqlite"
)
