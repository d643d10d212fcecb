// Package export writes fetched tickers to CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/guregu/null/v6"

	"github.com/rickgao/polygon-tickers/internal/model"
)

// ErrNoRecords is returned by WriteFile when there is nothing to write.
var ErrNoRecords = errors.New("no tickers to export")

// Header is the CSV header row, using the upstream field names.
var Header = []string{
	"ticker",
	"name",
	"market",
	"locale",
	"primary_exchange",
	"type",
	"active",
	"currency_name",
	"cik",
	"composite_figi",
	"share_class_figi",
	"last_updated_utc",
}

// row returns the CSV cells for t. NULL becomes an empty cell.
func row(t model.Ticker) []string {
	return []string{
		t.Symbol,
		str(t.Name),
		str(t.Market),
		str(t.Locale),
		str(t.PrimaryExchange),
		str(t.Type),
		boolStr(t.Active),
		str(t.CurrencyName),
		str(t.CIK),
		str(t.CompositeFIGI),
		str(t.ShareClassFIGI),
		str(t.LastUpdatedUTC),
	}
}

func str(s null.String) string {
	return s.ValueOrZero()
}

func boolStr(b null.Bool) string {
	if !b.Valid {
		return ""
	}
	return strconv.FormatBool(b.Bool)
}

// WriteCSV writes a header and one row per record.
func WriteCSV(w io.Writer, records []model.Ticker) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		if err := cw.Write(row(records[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path. No file is created for an empty set.
func WriteFile(path string, records []model.Ticker) (err error) {
	if len(records) == 0 {
		return ErrNoRecords
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return WriteCSV(f, records)
}
