package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/polygon-tickers/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "tickerload %s (%s) built %s with %s\n",
			info.Version, info.Commit, info.BuildTime, info.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
