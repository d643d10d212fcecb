package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rickgao/polygon-tickers/internal/job"
)

// Runner executes one job run.
type Runner interface {
	Run(ctx context.Context) (job.Report, error)
}

// RunnerFunc is a function adapter for Runner.
type RunnerFunc func(ctx context.Context) (job.Report, error)

func (f RunnerFunc) Run(ctx context.Context) (job.Report, error) {
	return f(ctx)
}

// Config holds scheduler configuration.
type Config struct {
	Interval          time.Duration // Time between runs (default: 24h)
	HeartbeatInterval time.Duration // Heartbeat log period, 0 disables (default: 1m)
	RunOnStart        bool          // Run immediately on Start (default: true)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:          24 * time.Hour,
		HeartbeatInterval: time.Minute,
		RunOnStart:        true,
	}
}

// RunError is a failed or panicking run caught by the scheduler.
type RunError struct {
	Err   error
	Panic any
	Stack []byte
}

func (e *RunError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("run panicked: %v", e.Panic)
	}
	return fmt.Sprintf("run failed: %v", e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Status is a snapshot of scheduler activity.
type Status struct {
	Runs       int64       `json:"runs"`
	Failures   int64       `json:"failures"`
	Running    bool        `json:"running"`
	LastStart  time.Time   `json:"last_start,omitzero"`
	LastEnd    time.Time   `json:"last_end,omitzero"`
	LastError  string      `json:"last_error,omitempty"`
	LastFailed bool        `json:"last_failed"`
	LastReport *job.Report `json:"last_report,omitempty"`
	NextRun    time.Time   `json:"next_run,omitzero"`
}

// Scheduler runs a job on a fixed interval.
type Scheduler struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	mu     sync.Mutex
	status Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(cfg Config, runner Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		logger: logger,
	}
}

// Start begins the trigger loop and the heartbeat.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be > 0, got %v", s.cfg.Interval)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	if s.cfg.HeartbeatInterval > 0 {
		s.wg.Add(1)
		go s.heartbeat()
	}

	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"heartbeat", s.cfg.HeartbeatInterval,
		"run_on_start", s.cfg.RunOnStart,
	)

	return nil
}

// Stop cancels any in-flight run and waits for the loops to exit.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of scheduler activity.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	if st.LastReport != nil {
		rep := *st.LastReport
		st.LastReport = &rep
	}
	return st
}

// run is the main trigger loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	if s.cfg.RunOnStart {
		s.RunOnce(s.ctx)
	}
	s.setNext(time.Now().Add(s.cfg.Interval))

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(s.ctx)
			s.setNext(time.Now().Add(s.cfg.Interval))
		}
	}
}

func (s *Scheduler) heartbeat() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			st := s.Status()
			s.logger.Info("heartbeat: scheduler is running",
				"runs", st.Runs,
				"failures", st.Failures,
				"running", st.Running,
			)
		}
	}
}

// RunOnce executes the job a single time, recording the outcome. Errors and
// panics are logged and returned as *RunError.
func (s *Scheduler) RunOnce(ctx context.Context) (err error) {
	start := time.Now()
	s.mu.Lock()
	s.status.Running = true
	s.status.LastStart = start
	s.mu.Unlock()

	s.logger.Info("starting ticker job")

	var rep job.Report
	defer func() {
		if r := recover(); r != nil {
			err = &RunError{Panic: r, Stack: debug.Stack()}
		}

		s.mu.Lock()
		s.status.Running = false
		s.status.Runs++
		s.status.LastEnd = time.Now()
		if rep.RunID != "" {
			s.status.LastReport = &rep
		}
		s.status.LastFailed = err != nil
		s.status.LastError = ""
		if err != nil {
			s.status.Failures++
			s.status.LastError = err.Error()
		}
		s.mu.Unlock()

		var runErr *RunError
		switch {
		case err == nil:
			s.logger.Info("ticker job completed successfully",
				"state", rep.State.String(),
				"inserted", rep.Inserted,
				"duration", time.Since(start),
			)
		case errors.As(err, &runErr) && runErr.Panic != nil:
			s.logger.Error("ticker job panicked",
				"panic", runErr.Panic,
				"stack", string(runErr.Stack),
			)
		default:
			s.logger.Error("ticker job failed",
				"state", rep.State.String(),
				"error", err,
			)
		}
	}()

	rep, err = s.runner.Run(ctx)
	if err != nil {
		err = &RunError{Err: err}
	}
	return err
}

func (s *Scheduler) setNext(t time.Time) {
	s.mu.Lock()
	s.status.NextRun = t
	s.mu.Unlock()
}
