package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/polygon-tickers/internal/model"
)

// Store is the destination table the loader writes to.
type Store interface {
	// CountPartition returns the number of rows stored for ds.
	CountPartition(ctx context.Context, ds model.PartitionDate) (int64, error)
	// InsertPartition inserts all rows atomically, rolling back on failure.
	InsertPartition(ctx context.Context, rows []model.TickerRow) error
}

// TransactionError is returned when the insert transaction failed and was
// rolled back.
type TransactionError struct {
	Partition model.PartitionDate
	Rows      int
	Err       error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("insert partition %s (%d rows): %v", e.Partition, e.Rows, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// TickerLoader loads fetch batches into a Store.
type TickerLoader struct {
	store  Store
	logger *slog.Logger
}

// NewTickerLoader creates a loader over store.
func NewTickerLoader(store Store, logger *slog.Logger) *TickerLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickerLoader{store: store, logger: logger}
}

// PartitionExists reports whether any row is stored for ds.
func (l *TickerLoader) PartitionExists(ctx context.Context, ds model.PartitionDate) (bool, int64, error) {
	n, err := l.store.CountPartition(ctx, ds)
	if err != nil {
		return false, 0, fmt.Errorf("check partition %s: %w", ds, err)
	}
	return n > 0, n, nil
}

// Insert writes every record of batch into partition ds in one transaction.
// An empty batch is a no-op and issues no statement.
func (l *TickerLoader) Insert(ctx context.Context, ds model.PartitionDate, batch *model.Batch) (int, error) {
	if batch.Len() == 0 {
		l.logger.Info("empty batch, nothing to insert", "partition", ds.String())
		return 0, nil
	}

	records := batch.Records()
	rows := make([]model.TickerRow, len(records))
	for i := range records {
		rows[i] = transform(records[i], ds)
	}

	start := time.Now()
	if err := l.store.InsertPartition(ctx, rows); err != nil {
		return 0, &TransactionError{Partition: ds, Rows: len(rows), Err: err}
	}

	l.logger.Info("inserted tickers",
		"partition", ds.String(),
		"count", len(rows),
		"duration", time.Since(start),
	)
	return len(rows), nil
}

// transform converts a Ticker to its warehouse row.
func transform(t model.Ticker, ds model.PartitionDate) model.TickerRow {
	return model.TickerRow{
		Symbol:          t.Symbol,
		Name:            t.Name,
		Market:          t.Market,
		Locale:          t.Locale,
		PrimaryExchange: t.PrimaryExchange,
		Type:            t.Type,
		Active:          t.Active,
		CurrencyName:    t.CurrencyName,
		CIK:             t.CIK,
		CompositeFIGI:   t.CompositeFIGI,
		ShareClassFIGI:  t.ShareClassFIGI,
		LastUpdatedUTC:  t.LastUpdatedUTC,
		DS:              ds,
	}
}
