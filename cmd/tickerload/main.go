// Command tickerload fetches the Polygon ticker reference list and loads it
// into a date-partitioned warehouse table.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tickerload",
	Short: "Load the Polygon ticker list into the warehouse once per day",
	Long: `tickerload pages through the Polygon /v3/reference/tickers endpoint within the
API rate limit and inserts the result into a table partitioned by the UTC date
of the run. A partition that already holds rows is never loaded twice.

Configuration comes from an optional YAML file, .env files and environment
variables such as POLYGON_API_KEY and SNOWFLAKE_ACCOUNT.`,
	SilenceUsage: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Execute() prints the error.
		os.Exit(1)
	}
}
