package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trips-club/internal/auth"
	"trips-club/internal/database"
	"trips-club/internal/models"
	"trips-club/internal/repository"
	"trips-club/internal/services"
)

type testServer struct {
	router    *gin.Engine
	repo      *repository.Repository
	admin     *services.AdminService
	credits   *services.CreditService
	lifecycle *services.LifecycleService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.InitJWT("handler-test-secret")

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
	adminService := services.NewAdminService(repo)
	credits := services.NewCreditService(repo)
	lifecycle := services.NewLifecycleService(repo, credits, adminService, 2000)
	votes := services.NewVoteService(repo)
	interest := services.NewInterestService(repo)
	viability := services.NewViabilityService(repo)
	users := services.NewUserService(repo)

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Auth:      NewAuthHandler(users, adminService),
		Proposals: NewProposalHandler(lifecycle, votes, interest, viability, users),
		Users:     NewUserHandler(credits, votes),
		Admin:     NewAdminHandler(adminService, lifecycle, viability, credits),
	})

	return &testServer{
		router:    router,
		repo:      repo,
		admin:     adminService,
		credits:   credits,
		lifecycle: lifecycle,
	}
}

// user creates a member and returns its id and a bearer token
func (s *testServer) user(t *testing.T, name string) (uint, string) {
	t.Helper()
	u := &models.User{Email: strings.ToLower(name) + "@example.com", DisplayName: name}
	if err := s.repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := auth.GenerateToken(u.ID, u.Email, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return u.ID, token
}

// adminUser creates a user holding the given admin role
func (s *testServer) adminUser(t *testing.T, name, role string) (uint, string) {
	t.Helper()
	id, token := s.user(t, name)
	if _, err := s.admin.PromoteUserToAdmin(context.Background(), id, role, 0); err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}
	return id, token
}

// trip inserts a proposal directly in the given status
func (s *testServer) trip(t *testing.T, slug string, status models.ProposalStatus, rule *models.ViabilityRule) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		Slug:               slug,
		Title:              "Trip " + slug,
		Destination:        "Kyoto",
		SourceType:         models.SourceNTG,
		ProposalStatus:     status,
		ViabilityRule:      rule,
		IsPublished:        status.IsOpen(),
		CreatorRewardCents: 2000,
	}
	if err := s.repo.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func intPtr(v int) *int { return &v }
