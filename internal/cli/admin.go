package cli

import (
	"fmt"
	"strings"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/domain/users"
	"saas-api/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var promoteAdminCmd = &cobra.Command{
	Use:   "promote-admin <email>",
	Short: "Grant admin rights to an existing user",
	Long: `Grant admin rights to an existing user.

The user has to sign in again for the new token to carry the admin claim.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootstrap(); err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.Open(config.DB_DRIVER, config.DB_URL)
		if err != nil {
			return err
		}
		if err := promoteAdmin(db, args[0]); err != nil {
			return err
		}
		fmt.Printf("✅ %s is now an admin\n", args[0])
		return nil
	},
}

func promoteAdmin(db *gorm.DB, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res := db.Model(&users.User{}).Where("email = ?", email).Update("is_admin", true)
	if res.Error != nil {
		return fmt.Errorf("promote %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no user with email %s", email)
	}
	return nil
}
