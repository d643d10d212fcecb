package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rickgao/polygon-tickers/internal/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch and load today's partition once",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	a, err := setup((*config.Config).Validate, "")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, runErr := a.job().Run(ctx)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return err
	}

	if runErr != nil {
		a.logger.Error("ticker job failed", "state", rep.State.String(), "error", runErr)
		return runErr
	}
	a.logger.Info("ticker job completed", "state", rep.State.String(), "inserted", rep.Inserted)
	return nil
}
