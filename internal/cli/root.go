// Package cli implements the gamesctl operator commands.
package cli

import (
	"fmt"
	"os"

	"github.com/pricofy/games-api/internal/config"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/spf13/cobra"
)

// Options are the flags shared by every command.
type Options struct {
	LogLevel string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &Options{}
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "gamesctl",
		Short: "Operator tool for the games API",
		Long: `gamesctl runs the games API locally and seeds its tables.

Configuration is read from the environment (or a .env file), the same way
the Lambda functions read it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if opts.LogLevel != "" {
				loaded.LogLevel = opts.LogLevel
			}
			if err := logger.Initialize(loaded.LogLevel); err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level override (env: LOG_LEVEL)")

	loadConfig := func() *config.Config { return cfg }
	rootCmd.AddCommand(newServeCmd(loadConfig))
	rootCmd.AddCommand(newSeedCmd(loadConfig))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
