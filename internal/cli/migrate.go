package cli

import (
	"fmt"

	"saas-api/config"
	"saas-api/database"
	"saas-api/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootstrap(); err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Open(config.DB_DRIVER, config.DB_URL)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("✅ schema up to date")
		return nil
	},
}
