package cli

import (
	"fmt"
	"os"

	"saas-api/config"
	"saas-api/logger"

	"github.com/spf13/cobra"
)

var (
	configFile string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "saas-api",
		Short:         "SaaS backend: accounts, feedback and Stripe credits",
		RunE:          runServe, // Default action is serve
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (env vars still win)")
}

// Execute runs the root command
func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(promoteAdminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// bootstrap loads config and starts the logger. Every command calls it first.
func bootstrap() error {
	config.LoadEnv(configFile)
	if err := logger.Init(config.IsDevelopment(), logger.LogLevel(config.LOG_LEVEL)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}
