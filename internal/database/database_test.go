package database

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"trips-club/internal/config"
	"trips-club/internal/models"
)

func TestDialectorSelection(t *testing.T) {
	sqliteCfg := &config.Config{Database: config.DatabaseConfig{URL: "sqlite://club.db"}}
	if name := Dialector(sqliteCfg).Name(); name != "sqlite" {
		t.Errorf("expected sqlite dialector, got %s", name)
	}

	pgCfg := &config.Config{Database: config.DatabaseConfig{Host: "localhost", Port: "5432"}}
	if name := Dialector(pgCfg).Name(); name != "postgres" {
		t.Errorf("expected postgres dialector, got %s", name)
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	for _, model := range []interface{}{&models.Trip{}, &models.Vote{}, &models.TripInterest{}, &models.CreditTransaction{}, &models.UserProfile{}} {
		if !db.Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}
	if !db.Migrator().HasIndex(&models.Vote{}, "idx_votes_user_trip") {
		t.Error("expected unique vote index")
	}

	if err := HealthCheck(context.Background(), db); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
