package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rugfork/internal/models"
)

var DB *gorm.DB

// Connect opens the store for the given driver ("postgres" or "sqlite").
func Connect(driver, dsn string) error {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	logrus.WithField("driver", driver).Info("Database connection established")
	return nil
}

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Pool{},
		&models.Bet{},
		&models.Tournament{},
		&models.TournamentParticipant{},
	}
}

// indexes gorm tags cannot express.
var indexes = []string{
	// at most one unsettled bet per user and pool
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bets_open_user_pool ON bets (user_id, pool_id) WHERE is_settled = false`,
	`CREATE INDEX IF NOT EXISTS idx_bets_user_created ON bets (user_id, created_at)`,
}

// Migrate creates or updates the schema on db.
func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// AutoMigrate migrates the global connection.
func AutoMigrate() error {
	if err := Migrate(DB); err != nil {
		return err
	}
	logrus.Info("Database migrations completed successfully")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
