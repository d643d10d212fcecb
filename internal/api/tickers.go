package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const tickersPath = "/v3/reference/tickers"

// TickerQuery holds the filters for the first tickers request.
type TickerQuery struct {
	Market string
	Active bool
	Order  string
	Sort   string
	Limit  int
}

// DefaultTickerQuery returns the filters used by the scheduled job.
func DefaultTickerQuery() TickerQuery {
	return TickerQuery{
		Market: "stocks",
		Active: true,
		Order:  "asc",
		Sort:   "ticker",
		Limit:  1000,
	}
}

func (q TickerQuery) values() url.Values {
	params := url.Values{}
	if q.Market != "" {
		params.Set("market", q.Market)
	}
	params.Set("active", strconv.FormatBool(q.Active))
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	return params
}

// ListTickers fetches the first page of tickers matching q.
func (c *Client) ListTickers(ctx context.Context, q TickerQuery) (*TickersResponse, error) {
	u := c.baseURL + tickersPath + "?" + q.values().Encode()

	var resp TickersResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	return &resp, nil
}

// ListTickersNext fetches the page behind a next_url cursor returned by a
// previous response.
func (c *Client) ListTickersNext(ctx context.Context, nextURL string) (*TickersResponse, error) {
	var resp TickersResponse
	if err := c.get(ctx, nextURL, &resp); err != nil {
		return nil, fmt.Errorf("list tickers next: %w", err)
	}
	return &resp, nil
}
