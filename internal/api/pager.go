package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/polygon-tickers/internal/model"
)

// DefaultRequestsPerMinute is the free-tier Polygon limit.
const DefaultRequestsPerMinute = 5

// DelayForRate returns the pause between two consecutive requests for the
// given requests-per-minute budget: ceil(60/rpm)+1 seconds. A non-positive
// rpm disables the pause.
func DelayForRate(rpm int) time.Duration {
	if rpm <= 0 {
		return 0
	}
	secs := (60+rpm-1)/rpm + 1
	return time.Duration(secs) * time.Second
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pager walks every page of the tickers endpoint, one request at a time.
type Pager struct {
	client *Client
	delay  time.Duration
	sleep  SleepFunc
	logger *slog.Logger
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithSleeper replaces the inter-page wait.
func WithSleeper(fn SleepFunc) PagerOption {
	return func(p *Pager) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// WithPagerLogger sets the logger.
func WithPagerLogger(logger *slog.Logger) PagerOption {
	return func(p *Pager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPager creates a pager that respects requestsPerMinute.
func NewPager(client *Client, requestsPerMinute int, opts ...PagerOption) *Pager {
	p := &Pager{
		client: client,
		delay:  DelayForRate(requestsPerMinute),
		sleep:  sleepContext,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Delay returns the wait applied between pages.
func (p *Pager) Delay() time.Duration {
	return p.delay
}

// FetchAll follows the cursor chain until the server stops returning a
// next_url. If a request fails, the records gathered so far are returned
// together with the error.
func (p *Pager) FetchAll(ctx context.Context, q TickerQuery) (*model.Batch, error) {
	batch := model.NewBatch(q.Limit)

	if err := p.Validate(); err != nil {
		return batch, err
	}

	resp, err := p.client.ListTickers(ctx, q)
	for {
		page := batch.Pages() + 1
		if err != nil {
			p.logger.Error("ticker page request failed",
				"page", page,
				"fetched", batch.Len(),
				"error", err,
			)
			return batch, fmt.Errorf("fetch page %d: %w", page, err)
		}

		records, dropped := resp.ToModels()
		if dropped > 0 {
			p.logger.Warn("dropped tickers without symbol", "page", page, "count", dropped)
		}
		batch.Append(records)

		p.logger.Info("fetched ticker page",
			"page", page,
			"size", len(records),
			"total", batch.Len(),
		)

		if resp.NextURL == "" {
			return batch, nil
		}

		p.logger.Debug("waiting before next page", "delay", p.delay)
		if err := p.sleep(ctx, p.delay); err != nil {
			return batch, fmt.Errorf("wait before page %d: %w", page+1, err)
		}

		resp, err = p.client.ListTickersNext(ctx, resp.NextURL)
	}
}

// Validate reports ErrMissingAPIKey when the client has no credentials.
func (p *Pager) Validate() error {
	if !p.client.HasAPIKey() {
		return ErrMissingAPIKey
	}
	return nil
}
