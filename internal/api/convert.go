package api

import (
	"github.com/guregu/null/v6"

	"github.com/rickgao/polygon-tickers/internal/model"
)

// ToModel converts an API ticker to the model type.
func (t *APITicker) ToModel() model.Ticker {
	return model.Ticker{
		Symbol:          t.Ticker,
		Name:            null.StringFromPtr(t.Name),
		Market:          null.StringFromPtr(t.Market),
		Locale:          null.StringFromPtr(t.Locale),
		PrimaryExchange: null.StringFromPtr(t.PrimaryExchange),
		Type:            null.StringFromPtr(t.Type),
		Active:          null.BoolFromPtr(t.Active),
		CurrencyName:    null.StringFromPtr(t.CurrencyName),
		CIK:             null.StringFromPtr(t.CIK),
		CompositeFIGI:   null.StringFromPtr(t.CompositeFIGI),
		ShareClassFIGI:  null.StringFromPtr(t.ShareClassFIGI),
		LastUpdatedUTC:  null.StringFromPtr(t.LastUpdatedUTC),
	}
}

// ToModels converts a page of results, dropping entries without a symbol.
// The second return value is the number of dropped entries.
func (r *TickersResponse) ToModels() ([]model.Ticker, int) {
	out := make([]model.Ticker, 0, len(r.Results))
	dropped := 0
	for i := range r.Results {
		if r.Results[i].Ticker == "" {
			dropped++
			continue
		}
		out = append(out, r.Results[i].ToModel())
	}
	return out, dropped
}
