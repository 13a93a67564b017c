package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trips-club/internal/database"
	"trips-club/internal/models"
	"trips-club/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	repo      *repository.Repository
	admin     *AdminService
	credits   *CreditService
	votes     *VoteService
	interest  *InterestService
	viability *ViabilityService
	lifecycle *LifecycleService
	users     *UserService
}

// newTestEnv opens a private in-memory database named after the test
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	repo := repository.NewRepository(db)
	admin := NewAdminService(repo)
	credits := NewCreditService(repo)
	return &testEnv{
		db:        db,
		repo:      repo,
		admin:     admin,
		credits:   credits,
		votes:     NewVoteService(repo),
		interest:  NewInterestService(repo),
		viability: NewViabilityService(repo),
		lifecycle: NewLifecycleService(repo, credits, admin, 2000),
		users:     NewUserService(repo),
	}
}

// seedTrip inserts a trip directly in the given status
func (e *testEnv) seedTrip(t *testing.T, status models.ProposalStatus, rule *models.ViabilityRule) *models.Trip {
	t.Helper()

	var count int64
	e.db.Model(&models.Trip{}).Count(&count)

	trip := &models.Trip{
		Slug:               fmt.Sprintf("seed-%d", count+1),
		Title:              "Seeded trip",
		Destination:        "Lisbon",
		SourceType:         models.SourceNTG,
		ProposalStatus:     status,
		ViabilityRule:      rule,
		IsPublished:        status.IsOpen(),
		CreatorRewardCents: 2000,
	}

	if err := e.repo.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("failed to seed trip: %v", err)
	}
	return trip
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func validDraft() *TripDraft {
	return &TripDraft{
		Title:       "Walking the Camino",
		Summary:     "Ten days on the Portuguese route",
		Description: "From Porto to Santiago on foot.",
		Destination: "Santiago de Compostela",
		PriceCents:  189900,
	}
}
