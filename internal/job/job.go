package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/polygon-tickers/internal/api"
	"github.com/rickgao/polygon-tickers/internal/database"
	"github.com/rickgao/polygon-tickers/internal/model"
	"github.com/rickgao/polygon-tickers/internal/writer"
)

// Fetcher retrieves the complete ticker set. On failure FetchAll returns
// whatever was fetched before the error.
type Fetcher interface {
	// Validate reports configuration problems without touching the network.
	Validate() error
	FetchAll(ctx context.Context, q api.TickerQuery) (*model.Batch, error)
}

// StoreOpener connects to the destination store for one run.
type StoreOpener func(ctx context.Context) (database.Store, error)

// Report summarizes one run.
type Report struct {
	RunID     string        `json:"run_id"`
	State     State         `json:"state"`
	Partition string        `json:"partition"`
	Fetched   int           `json:"fetched"`
	Pages     int           `json:"pages"`
	Existing  int64         `json:"existing_rows"`
	Inserted  int           `json:"inserted"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`
	Trail     []State       `json:"trail"`
	Error     string        `json:"error,omitempty"`
}

// Job fetches the ticker set and loads it into today's partition.
type Job struct {
	fetcher Fetcher
	open    StoreOpener
	query   api.TickerQuery
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Job.
type Option func(*Job)

// WithQuery overrides the ticker filters.
func WithQuery(q api.TickerQuery) Option {
	return func(j *Job) { j.query = q }
}

// WithClock overrides the time source used for the partition key.
func WithClock(now func() time.Time) Option {
	return func(j *Job) {
		if now != nil {
			j.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// New creates a job.
func New(fetcher Fetcher, open StoreOpener, opts ...Option) *Job {
	j := &Job{
		fetcher: fetcher,
		open:    open,
		query:   api.DefaultTickerQuery(),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes one fetch-and-load cycle. The returned report is always
// populated; the error is non-nil when the run ended in a failure state.
func (j *Job) Run(ctx context.Context) (rep Report, err error) {
	m := newMachine()
	t0 := time.Now()
	started := j.now()
	ds := model.PartitionFor(started)

	rep = Report{
		RunID:     uuid.NewString(),
		Partition: ds.String(),
		Started:   started,
	}
	logger := j.logger.With("run_id", rep.RunID, "partition", rep.Partition)

	defer func() {
		rep.State = m.state
		rep.Trail = m.trail
		rep.Duration = time.Since(t0)
		if err != nil {
			rep.Error = err.Error()
		}
	}()

	if err = j.fetcher.Validate(); err != nil {
		_ = m.to(StateFailed)
		return rep, err
	}

	// The store is acquired before fetching so a bad connection fails fast.
	store, err := j.open(ctx)
	if err != nil {
		_ = m.to(StateFailed)
		return rep, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("close store failed", "error", cerr)
		}
	}()

	if err = m.to(StateFetching); err != nil {
		return rep, err
	}
	logger.Info("fetching tickers")

	batch, err := j.fetcher.FetchAll(ctx, j.query)
	rep.Fetched = batch.Len()
	rep.Pages = batch.Pages()
	if err != nil {
		_ = m.to(StatePartialFailure)
		logger.Error("fetch incomplete, batch discarded",
			"fetched", rep.Fetched,
			"pages", rep.Pages,
			"error", err,
		)
		return rep, fmt.Errorf("fetch tickers: %w", err)
	}

	if err = m.to(StateAggregated); err != nil {
		return rep, err
	}
	logger.Info("fetched tickers", "count", rep.Fetched, "pages", rep.Pages)

	if err = m.to(StateCheckPartition); err != nil {
		return rep, err
	}
	loader := writer.NewTickerLoader(store, logger)

	exists, existing, err := loader.PartitionExists(ctx, ds)
	rep.Existing = existing
	if err != nil {
		_ = m.to(StateLoadFailure)
		return rep, err
	}
	if exists {
		logger.Info("partition already loaded, skipping", "existing_rows", existing)
		return rep, m.to(StateSkipped)
	}

	if err = m.to(StateLoading); err != nil {
		return rep, err
	}
	n, err := loader.Insert(ctx, ds, batch)
	if err != nil {
		_ = m.to(StateLoadFailure)
		return rep, err
	}
	rep.Inserted = n

	logger.Info("partition committed", "inserted", n)
	return rep, m.to(StateCommitted)
}
