package model

import (
	"github.com/guregu/null/v6"
)

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// Ticker is one security reference entry as returned by the upstream API.
// Values are built once per page and never modified afterwards.
type Ticker struct {
	Symbol          string      // Required, unique within a fetch (e.g., "AAPL")
	Name            null.String // Display name
	Market          null.String // Market segment (e.g., "stocks")
	Locale          null.String // e.g., "us"
	PrimaryExchange null.String // MIC of the primary listing (e.g., "XNAS")
	Type            null.String // Instrument type (e.g., "CS", "ETF")
	Active          null.Bool   // Active flag
	CurrencyName    null.String // e.g., "usd"
	CIK             null.String // SEC Central Index Key
	CompositeFIGI   null.String // Composite OpenFIGI identifier
	ShareClassFIGI  null.String // Share class OpenFIGI identifier
	LastUpdatedUTC  null.String // ISO 8601 timestamp of the last upstream update
}

// -----------------------------------------------------------------------------
// Warehouse Types
// -----------------------------------------------------------------------------

// Column names of the destination table, in insert order.
const (
	ColSymbol          = "SYMBOL"
	ColName            = "NAME"
	ColMarket          = "MARKET"
	ColLocale          = "LOCALE"
	ColPrimaryExchange = "PRIMARY_EXCHANGE"
	ColType            = "TYPE"
	ColActive          = "ACTIVE"
	ColCurrencyName    = "CURRENCY_NAME"
	ColCIK             = "CIK"
	ColCompositeFIGI   = "COMPOSITE_FIGI"
	ColShareClassFIGI  = "SHARE_CLASS_FIGI"
	ColLastUpdatedUTC  = "LAST_UPDATED_UTC"
	ColDS              = "DS"
)

// Columns lists every destination column in the order TickerRow.Values returns them.
var Columns = []string{
	ColSymbol,
	ColName,
	ColMarket,
	ColLocale,
	ColPrimaryExchange,
	ColType,
	ColActive,
	ColCurrencyName,
	ColCIK,
	ColCompositeFIGI,
	ColShareClassFIGI,
	ColLastUpdatedUTC,
	ColDS,
}

// TickerRow is the fixed-width warehouse representation of a Ticker.
type TickerRow struct {
	Symbol          string
	Name            null.String
	Market          null.String
	Locale          null.String
	PrimaryExchange null.String
	Type            null.String
	Active          null.Bool
	CurrencyName    null.String
	CIK             null.String
	CompositeFIGI   null.String
	ShareClassFIGI  null.String
	LastUpdatedUTC  null.String
	DS              PartitionDate
}

// Values returns the row's column values in Columns order.
// NULLs are returned as untyped nil so every driver can bind them.
func (r TickerRow) Values() []any {
	return []any{
		r.Symbol,
		nullable(r.Name),
		nullable(r.Market),
		nullable(r.Locale),
		nullable(r.PrimaryExchange),
		nullable(r.Type),
		nullableBool(r.Active),
		nullable(r.CurrencyName),
		nullable(r.CIK),
		nullable(r.CompositeFIGI),
		nullable(r.ShareClassFIGI),
		nullable(r.LastUpdatedUTC),
		r.DS.String(),
	}
}

func nullable(s null.String) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

func nullableBool(b null.Bool) any {
	if !b.Valid {
		return nil
	}
	return b.Bool
}
