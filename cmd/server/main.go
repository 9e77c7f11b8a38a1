package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title                       Market Catalog API
// @version                     1.0
// @description                 Second-hand offer catalog.
// @BasePath                    /
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token, as "Bearer <token>".
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "market-catalog",
		Short:         "Offer catalog backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (yaml, json or toml)")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newIssueTokenCmd(&configPath),
	)
	return rootCmd
}
