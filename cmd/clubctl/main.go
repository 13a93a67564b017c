package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trips-club/internal/auth"
	"trips-club/internal/config"
	"trips-club/internal/database"
	"trips-club/internal/logger"
	"trips-club/internal/repository"
	"trips-club/internal/services"
)

// app holds the services every subcommand works against
type app struct {
	cfg       *config.Config
	admin     *services.AdminService
	users     *services.UserService
	credits   *services.CreditService
	viability *services.ViabilityService
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "clubctl",
	Short: "Operate the trips club backend",
	Long: `clubctl runs maintenance tasks against the trips club database: viability
sweeps, credit ledger reconciliation, manual grants, admin promotion and
development tokens. It reads the same environment as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if err := logger.Init(&cfg.Logging); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		auth.InitJWT(cfg.App.JWTSecret)

		if err := database.Connect(cfg); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := database.AutoMigrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		repo := repository.NewRepository(database.GetDB())
		current = &app{
			cfg:       cfg,
			admin:     services.NewAdminService(repo),
			users:     services.NewUserService(repo),
			credits:   services.NewCreditService(repo),
			viability: services.NewViabilityService(repo),
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
