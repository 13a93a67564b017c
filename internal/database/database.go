package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trips-club/internal/config"
	"trips-club/internal/logger"
	"trips-club/internal/models"
)

var DB *gorm.DB

// Dialector picks the gorm driver for the configured database. sqlite://
// URLs use the pure-Go SQLite driver, everything else goes to PostgreSQL.
func Dialector(cfg *config.Config) gorm.Dialector {
	dsn := cfg.GetDSN()
	if cfg.IsSQLite() {
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}
	return postgres.Open(dsn)
}

// Connect establishes a connection to the configured database
func Connect(cfg *config.Config) error {
	var err error

	DB, err = gorm.Open(Dialector(cfg), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if cfg.IsSQLite() {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	logger.WithFields(logger.Fields{"sqlite": cfg.IsSQLite()}).Info("Database connection established")
	return nil
}

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Trip{},
		&models.Vote{},
		&models.TripInterest{},
		&models.CreditTransaction{},
		&models.AdminUser{},
		&models.AdminLog{},
	}
}

// Migrate runs automatic migrations for all models on db
func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}
	return nil
}

// AutoMigrate migrates the package-level connection
func AutoMigrate() error {
	if err := Migrate(DB); err != nil {
		return err
	}
	logger.Info("Database migrations completed successfully")
	return nil
}

// HealthCheck pings the database
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
