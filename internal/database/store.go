package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rickgao/polygon-tickers/internal/config"
	"github.com/rickgao/polygon-tickers/internal/writer"
)

// Store is a warehouse table that can be loaded by writer.TickerLoader and
// must be closed after use.
type Store interface {
	writer.Store
	io.Closer
}

// Open connects to the configured warehouse and verifies the connection.
func Open(ctx context.Context, cfg config.WarehouseConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table, err := ParseTableName(cfg.Table)
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverSnowflake, "":
		db, err := OpenSnowflake(ctx, cfg.Snowflake)
		if err != nil {
			return nil, fmt.Errorf("connect snowflake: %w", err)
		}
		return NewSQLStore(db, table,
			WithBatchSize(cfg.InsertBatchSize),
			WithLogger(logger),
		), nil

	case config.DriverPostgres:
		pool, err := Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPgStore(pool, table, logger), nil

	default:
		return nil, fmt.Errorf("unsupported warehouse driver %q", cfg.Driver)
	}
}
