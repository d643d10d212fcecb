package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rickgao/polygon-tickers/internal/config"
	"github.com/rickgao/polygon-tickers/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch every ticker and write them to a CSV file",
	Long: `export pages through the ticker list and writes it to a CSV file. Warehouse
settings are not needed. If a page request fails, the tickers fetched so far are
still written and the command exits with the error.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "tickers.csv", "output CSV path")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := setup((*config.Config).ValidateAPI, "")
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch, fetchErr := a.pager().FetchAll(ctx, a.query())
	logger.Info("finished fetching", "total", batch.Len(), "pages", batch.Pages())

	err = export.WriteFile(exportOut, batch.Records())
	switch {
	case errors.Is(err, export.ErrNoRecords):
		logger.Warn("no tickers were fetched, so no CSV file was created")
	case err != nil:
		return err
	default:
		logger.Info("data written", "path", exportOut, "count", batch.Len())
	}

	return fetchErr
}
