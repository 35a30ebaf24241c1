package database

import (
	"fmt"
	"strings"

	"saas-api/internal/domain/billing"
	"saas-api/internal/domain/feedback"
	"saas-api/internal/domain/users"
	"saas-api/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Open connects with the dialector selected by driver: postgres (default),
// mysql or sqlite.
func Open(driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&users.VerificationToken{},
		&feedback.Feedback{},
		&billing.Payment{},
		&billing.WebhookEvent{},
	)
}

func InitDB(driver, dsn string) {
	db, err := Open(driver, dsn)
	if err != nil {
		logger.Get().Fatal("❌ Failed to connect to database", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		logger.Get().Fatal("❌ AutoMigrate error", zap.Error(err))
	}

	DB = db
	logger.Get().Info("✅ Connected and migrated successfully", zap.String("driver", driver))
}
