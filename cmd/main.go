package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"trips-club/internal/auth"
	"trips-club/internal/config"
	"trips-club/internal/database"
	"trips-club/internal/handlers"
	"trips-club/internal/jobs"
	"trips-club/internal/logger"
	"trips-club/internal/metrics"
	"trips-club/internal/repository"
	"trips-club/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(&cfg.Logging); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize services
	adminService := services.NewAdminService(repo)
	userService := services.NewUserService(repo)
	creditService := services.NewCreditService(repo)
	voteService := services.NewVoteService(repo)
	interestService := services.NewInterestService(repo)
	viabilityService := services.NewViabilityService(repo)
	lifecycleService := services.NewLifecycleService(repo, creditService, adminService, cfg.App.DefaultCreatorRewardCents)

	// Initialize handlers
	routes := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(userService, adminService),
		Proposals: handlers.NewProposalHandler(lifecycleService, voteService, interestService, viabilityService, userService),
		Users:     handlers.NewUserHandler(creditService, voteService),
		Admin:     handlers.NewAdminHandler(adminService, lifecycleService, viabilityService, creditService),
	}
	if cfg.RateLimit.Enabled {
		routes.Limiter = handlers.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		routes.Limiter.StartCleanup(10*time.Minute, 30*time.Minute)
	}

	// Start viability sweep job
	var sweeper *jobs.ViabilitySweeper
	if cfg.App.ViabilitySweepInterval > 0 {
		sweeper = jobs.NewViabilitySweeper(viabilityService, cfg.App.ViabilitySweepInterval)
		go sweeper.Start()
	}

	// Set up Gin router
	router := gin.New()
	router.Use(handlers.Recovery())
	router.Use(handlers.RequestLogger())
	router.Use(handlers.SecurityHeaders())
	router.Use(metrics.Middleware())

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, database.GetDB()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  err.Error(),
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	handlers.RegisterRoutes(router, routes)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logger.Fields{"port": cfg.Server.Port}).Info("Server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if sweeper != nil {
		sweeper.Stop()
	}
	if routes.Limiter != nil {
		routes.Limiter.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
