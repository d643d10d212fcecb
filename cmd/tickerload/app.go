package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/rickgao/polygon-tickers/internal/api"
	"github.com/rickgao/polygon-tickers/internal/config"
	"github.com/rickgao/polygon-tickers/internal/database"
	"github.com/rickgao/polygon-tickers/internal/job"
	"github.com/rickgao/polygon-tickers/internal/logging"
	"github.com/rickgao/polygon-tickers/internal/version"
)

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// setup loads configuration, builds the logger and runs validate. logFile is
// used when the configuration names no log file.
func setup(validate func(*config.Config) error, logFile string) (*app, error) {
	if err := config.LoadEnvFiles(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithDefaults(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" && cfg.Logging.File == "" {
		cfg.Logging.File = logFile
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	if err := validate(cfg); err != nil {
		logger.Error("invalid configuration", "error", err)
		closer.Close()
		return nil, err
	}

	logger.Info("configuration loaded",
		"version", version.Version,
		"commit", version.Commit,
		"config", cfgFile,
		"api_url", cfg.API.BaseURL,
		"requests_per_minute", cfg.API.RequestsPerMinute,
		"driver", cfg.Warehouse.Driver,
		"table", cfg.Warehouse.Table,
	)

	return &app{cfg: cfg, logger: logger, closer: closer}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

func (a *app) query() api.TickerQuery {
	q := api.DefaultTickerQuery()
	q.Market = a.cfg.API.Market
	q.Limit = a.cfg.API.PageLimit
	return q
}

func (a *app) pager() *api.Pager {
	client := api.NewClient(
		a.cfg.API.BaseURL,
		a.cfg.API.APIKey,
		api.WithLogger(a.logger),
		api.WithTimeout(a.cfg.API.Timeout),
	)
	return api.NewPager(client, a.cfg.API.RequestsPerMinute, api.WithPagerLogger(a.logger))
}

func (a *app) job() *job.Job {
	open := func(ctx context.Context) (database.Store, error) {
		return database.Open(ctx, a.cfg.Warehouse, a.logger)
	}
	return job.New(a.pager(), open,
		job.WithQuery(a.query()),
		job.WithLogger(a.logger),
	)
}
