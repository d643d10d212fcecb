package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/snowflakedb/gosnowflake" // registers the "snowflake" driver

	"github.com/rickgao/polygon-tickers/internal/config"
	"github.com/rickgao/polygon-tickers/internal/model"
)

// OpenSnowflake opens and pings a Snowflake connection.
func OpenSnowflake(ctx context.Context, cfg config.SnowflakeConfig) (*sql.DB, error) {
	dsn, err := SnowflakeDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snowflake: %w", err)
	}

	return db, nil
}

// SQLStore writes partitions through database/sql using ? placeholders.
type SQLStore struct {
	db        *sql.DB
	table     TableName
	batchSize int
	ph        placeholder
	logger    *slog.Logger
}

// SQLStoreOption configures a SQLStore.
type SQLStoreOption func(*SQLStore)

// WithBatchSize sets how many rows go into one INSERT statement.
func WithBatchSize(n int) SQLStoreOption {
	return func(s *SQLStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SQLStoreOption {
	return func(s *SQLStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSQLStore wraps an open database handle. The store owns db and closes it
// in Close.
func NewSQLStore(db *sql.DB, table TableName, opts ...SQLStoreOption) *SQLStore {
	s := &SQLStore{
		db:        db,
		table:     table,
		batchSize: config.DefaultInsertBatchSize,
		ph:        questionMark,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CountPartition returns the number of rows already stored for ds.
func (s *SQLStore) CountPartition(ctx context.Context, ds model.PartitionDate) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countSQL(s.table, s.ph), ds.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count partition %s in %s: %w", ds, s.table, err)
	}
	return n, nil
}

// InsertPartition inserts rows in chunks inside a single transaction. Either
// every row is committed or none is.
func (s *SQLStore) InsertPartition(ctx context.Context, rows []model.TickerRow) (err error) {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("rollback failed", "table", s.table.String(), "error", rbErr)
			}
		}
	}()

	// Full chunks share one prepared statement; the tail gets its own.
	var full *sql.Stmt
	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		chunk := rows[start:end]

		args := make([]any, 0, len(chunk)*len(model.Columns))
		for i := range chunk {
			args = append(args, chunk[i].Values()...)
		}

		if len(chunk) == s.batchSize {
			if full == nil {
				full, err = tx.PrepareContext(ctx, insertSQL(s.table, s.batchSize, s.ph))
				if err != nil {
					return fmt.Errorf("prepare insert: %w", err)
				}
				defer full.Close()
			}
			_, err = full.ExecContext(ctx, args...)
		} else {
			_, err = tx.ExecContext(ctx, insertSQL(s.table, len(chunk), s.ph), args...)
		}
		if err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}

		s.logger.Debug("inserted chunk", "table", s.table.String(), "from", start, "to", end)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
