// Package db opens the gorm connection used by the stores
package db

import (
	"bitwise74/tracker-api/internal/model"
	"bitwise74/tracker-api/pkg/util"
	"errors"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database of the given driver ("sqlite" or
// "postgres") and migrates all tables. Unique violations are translated
// to gorm.ErrDuplicatedKey for both drivers.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "database.db"
		}

		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInDocker() && dsn != ":memory:" {
			if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", dsn)
			}
		}

		dialector = sqlite.Open(dsn)
	case "postgres":
		if dsn == "" {
			return nil, errors.New("no postgres dsn provided")
		}

		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", driver, err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle, %w", err)
		}

		// A second connection to :memory: would open a different database
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(model.User{}, model.VerificationToken{}, model.Subscription{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
