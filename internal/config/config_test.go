package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("VIABILITY_SWEEP_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.DefaultCreatorRewardCents != 2000 {
		t.Errorf("expected default reward 2000, got %d", cfg.App.DefaultCreatorRewardCents)
	}
	if cfg.App.ViabilitySweepInterval != 0 {
		t.Errorf("expected sweep disabled by default, got %v", cfg.App.ViabilitySweepInterval)
	}
	if cfg.IsSQLite() {
		t.Error("expected postgres when DATABASE_URL is unset")
	}
	want := "host=db.internal port=5432 user=postgres password= dbname=trips_club sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("unexpected DSN:\n got %s\nwant %s", got, want)
	}
}

func TestLoadDatabaseURLAndSweep(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "sqlite://club.db")
	t.Setenv("VIABILITY_SWEEP_INTERVAL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsSQLite() {
		t.Error("expected sqlite:// URL to be detected")
	}
	if cfg.GetDSN() != "sqlite://club.db" {
		t.Errorf("expected URL to be returned verbatim, got %s", cfg.GetDSN())
	}
	if cfg.App.ViabilitySweepInterval != 15*time.Minute {
		t.Errorf("expected 15m sweep interval, got %v", cfg.App.ViabilitySweepInterval)
	}
}

func TestLoadRejectsBadSweepInterval(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("VIABILITY_SWEEP_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed sweep interval")
	}
}
