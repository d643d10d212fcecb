package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/polygon-tickers/internal/config"
	"github.com/rickgao/polygon-tickers/internal/health"
	"github.com/rickgao/polygon-tickers/internal/scheduler"
)

var scheduleLogFile string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the load on a fixed interval until interrupted",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleLogFile, "log-file", config.DefaultLogFile, "append logs to this file when logging.file is unset (empty disables)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	a, err := setup((*config.Config).Validate, scheduleLogFile)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(scheduler.Config{
		Interval:          a.cfg.Scheduler.Interval,
		HeartbeatInterval: a.cfg.Scheduler.Heartbeat(),
		RunOnStart:        a.cfg.Scheduler.ShouldRunOnStart(),
	}, a.job(), logger)

	g, gctx := errgroup.WithContext(ctx)

	if err := sched.Start(gctx); err != nil {
		return err
	}
	logger.Info("scheduler running, press Ctrl+C to stop")

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return sched.Stop(shutdownCtx)
	})

	if a.cfg.Health.Addr != "" {
		srv := health.NewServer(a.cfg.Health.Addr, sched, logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("scheduler exited with error", "error", err)
		return err
	}
	logger.Info("scheduler stopped by user")
	return nil
}
