package database

import (
	"fmt"

	"auction-engine/internal/config"
	"auction-engine/internal/models"
	"auction-engine/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured relational store
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite has a single writer; one connection serializes the units
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	utils.Info("database connection established", map[string]any{"driver": cfg.Driver})
	return db, nil
}

// AutoMigrate creates the ledger tables and the deposit table the account
// subsystem owns
func AutoMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.Auction{},
		&models.Bid{},
		&models.ProxyBid{},
		&models.DepositAccount{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("migration of %T failed: %w", table, err)
		}
	}

	utils.Info("database migrations completed", nil)
	return nil
}
