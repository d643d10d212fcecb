package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/rickgao/polygon-tickers/internal/model"
)

// fakeStore keeps rows per partition and records every call.
type fakeStore struct {
	rows      map[string][]model.TickerRow
	counts    int
	inserts   int
	countErr  error
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string][]model.TickerRow)}
}

func (f *fakeStore) CountPartition(_ context.Context, ds model.PartitionDate) (int64, error) {
	f.counts++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.rows[ds.String()])), nil
}

func (f *fakeStore) InsertPartition(_ context.Context, rows []model.TickerRow) error {
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, r := range rows {
		f.rows[r.DS.String()] = append(f.rows[r.DS.String()], r)
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func batchOf(n int) *model.Batch {
	page := make([]model.Ticker, n)
	for i := range page {
		page[i] = model.Ticker{Symbol: fmt.Sprintf("S%04d", i), Active: null.BoolFrom(true)}
	}
	b := model.NewBatch(n)
	b.Append(page)
	return b
}

var day = model.PartitionFor(time.Date(2024, 6, 3, 22, 15, 0, 0, time.UTC))

func TestPartitionExists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		stored   int
		countErr error
		want     bool
		wantN    int64
		wantErr  bool
	}{
		{name: "empty partition", stored: 0, want: false, wantN: 0},
		{name: "loaded partition", stored: 1042, want: true, wantN: 1042},
		{name: "count failure", countErr: errors.New("warehouse unavailable"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.rows["2024-06-03"] = make([]model.TickerRow, tt.stored)
			store.countErr = tt.countErr
			l := NewTickerLoader(store, quietLogger())

			got, n, err := l.PartitionExists(ctx, day)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PartitionExists() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, tt.countErr) {
					t.Errorf("PartitionExists() error = %v, want wrapped %v", err, tt.countErr)
				}
				return
			}
			if got != tt.want || n != tt.wantN {
				t.Errorf("PartitionExists() = (%v, %d), want (%v, %d)", got, n, tt.want, tt.wantN)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every record into the partition", func(t *testing.T) {
		store := newFakeStore()
		l := NewTickerLoader(store, quietLogger())

		n, err := l.Insert(ctx, day, batchOf(1042))
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if n != 1042 {
			t.Errorf("Insert() = %d, want 1042", n)
		}
		if got := len(store.rows["2024-06-03"]); got != 1042 {
			t.Errorf("stored rows = %d, want 1042", got)
		}
		if store.inserts != 1 {
			t.Errorf("inserts = %d, want 1", store.inserts)
		}
		for _, r := range store.rows["2024-06-03"] {
			if r.DS != day {
				t.Fatalf("row %s DS = %s, want %s", r.Symbol, r.DS, day)
			}
		}
	})

	t.Run("empty batch issues no insert", func(t *testing.T) {
		store := newFakeStore()
		l := NewTickerLoader(store, quietLogger())

		n, err := l.Insert(ctx, day, model.NewBatch(0))
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if n != 0 {
			t.Errorf("Insert() = %d, want 0", n)
		}
		if store.inserts != 0 {
			t.Errorf("inserts = %d, want 0", store.inserts)
		}
	})

	t.Run("nil batch issues no insert", func(t *testing.T) {
		store := newFakeStore()
		l := NewTickerLoader(store, quietLogger())

		if _, err := l.Insert(ctx, day, nil); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if store.inserts != 0 {
			t.Errorf("inserts = %d, want 0", store.inserts)
		}
	})

	t.Run("insert failure", func(t *testing.T) {
		store := newFakeStore()
		store.insertErr = errors.New("constraint violated")
		l := NewTickerLoader(store, quietLogger())

		_, err := l.Insert(ctx, day, batchOf(5))
		var txErr *TransactionError
		if !errors.As(err, &txErr) {
			t.Fatalf("Insert() error = %v, want *TransactionError", err)
		}
		if txErr.Rows != 5 || txErr.Partition != day {
			t.Errorf("TransactionError = %+v, want 5 rows on %s", txErr, day)
		}
		if !errors.Is(err, store.insertErr) {
			t.Error("TransactionError does not unwrap to the store error")
		}
		if len(store.rows) != 0 {
			t.Errorf("stored partitions = %d, want 0", len(store.rows))
		}
	})
}

func TestTransform(t *testing.T) {
	tk := model.Ticker{
		Symbol:         "BRK.A",
		Name:           null.StringFrom("Berkshire Hathaway Inc."),
		Type:           null.StringFrom("CS"),
		Active:         null.BoolFrom(true),
		ShareClassFIGI: null.StringFrom("BBG001S5WCY6"),
	}

	row := transform(tk, day)

	if row.Symbol != "BRK.A" {
		t.Errorf("Symbol = %s, want BRK.A", row.Symbol)
	}
	if row.Name.String != "Berkshire Hathaway Inc." {
		t.Errorf("Name = %s, want Berkshire Hathaway Inc.", row.Name.String)
	}
	if row.ShareClassFIGI.String != "BBG001S5WCY6" {
		t.Errorf("ShareClassFIGI = %s, want BBG001S5WCY6", row.ShareClassFIGI.String)
	}
	if row.CIK.Valid {
		t.Errorf("CIK = %v, want null", row.CIK)
	}
	if row.DS.String() != "2024-06-03" {
		t.Errorf("DS = %s, want 2024-06-03", row.DS)
	}
}
