package database

import (
	"fmt"

	"github.com/sangkips/duka-pos/internal/config"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// oneOpenRegisterIndex enforces at most one open register session per shop
const oneOpenRegisterIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_register_sessions_one_open
	ON register_sessions (shop_id)
	WHERE closed_at IS NULL AND deleted_at IS NULL`

// Open connects to the database selected by cfg.Driver
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteDB(cfg.SQLitePath)
	case "postgres", "":
		return NewPostgresDB(cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q (use postgres or sqlite)", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log := logger.WithComponent("database")
	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// NewSQLiteDB opens a SQLite database. SQLite allows a single writer, so the pool is
// capped at one connection and transactions serialize.
func NewSQLiteDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log := logger.WithComponent("database")
	log.Info().Str("path", dsn).Msg("opened SQLite database")
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Gorm(),
		TranslateError: true,
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log := logger.WithComponent("database")
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&entity.Shop{},
		&entity.User{},

		// Catalog
		&entity.Product{},
		&entity.TaxRate{},

		// Register and sales
		&entity.RegisterSession{},
		&entity.Sale{},
		&entity.SaleLineItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.Exec(oneOpenRegisterIndex).Error; err != nil {
		return fmt.Errorf("failed to create open register index: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}
