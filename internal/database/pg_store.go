package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/polygon-tickers/internal/config"
	"github.com/rickgao/polygon-tickers/internal/model"
)

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// PgStore writes partitions to PostgreSQL with COPY.
type PgStore struct {
	pool   *pgxpool.Pool
	table  TableName
	logger *slog.Logger
}

// NewPgStore wraps a pool. The store owns the pool and closes it in Close.
func NewPgStore(pool *pgxpool.Pool, table TableName, logger *slog.Logger) *PgStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PgStore{pool: pool, table: table, logger: logger}
}

// CountPartition returns the number of rows already stored for ds.
func (s *PgStore) CountPartition(ctx context.Context, ds model.PartitionDate) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, countSQL(s.table, dollar), ds.Time()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count partition %s in %s: %w", ds, s.table, err)
	}
	return n, nil
}

// InsertPartition copies rows inside one transaction.
func (s *PgStore) InsertPartition(ctx context.Context, rows []model.TickerRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier(s.table.Parts()),
		model.Columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return pgValues(rows[i]), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copy rows: copied %d of %d", n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("copied rows", "table", s.table.String(), "rows", n)
	return nil
}

// pgValues binds DS as a time so it lands in a DATE column.
func pgValues(r model.TickerRow) []any {
	v := r.Values()
	v[len(v)-1] = r.DS.Time()
	return v
}

// Close releases the pool.
func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}
