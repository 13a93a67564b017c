package services

import (
	"context"
	"errors"
	"testing"

	"trips-club/internal/models"
)

func TestPromoteUserToAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, " Ada@Example.com ", "Ada")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}

	if _, err := env.admin.PromoteUserToAdmin(ctx, user.ID, "OWNER", 0); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown role, got %v", err)
	}
	if _, err := env.admin.PromoteUserToAdmin(ctx, 999, models.RoleEditor, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}

	admin, err := env.admin.PromoteUserToAdmin(ctx, user.ID, models.RoleSuperAdmin, 0)
	if err != nil {
		t.Fatalf("PromoteUserToAdmin failed: %v", err)
	}
	if admin.Permissions["manage_credits"] != true {
		t.Errorf("expected super admin to manage credits, got %v", admin.Permissions)
	}
	if !env.admin.IsAdmin(ctx, user.ID) {
		t.Error("expected IsAdmin after promotion")
	}

	if _, err := env.admin.PromoteUserToAdmin(ctx, user.ID, models.RoleEditor, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate promotion, got %v", err)
	}
}

func TestDisplayNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _ := env.users.CreateUser(ctx, "a@example.com", "Alice")
	b, _ := env.users.CreateUser(ctx, "b@example.com", "Bob")

	names, err := env.users.DisplayNames(ctx, []uint{a.ID, b.ID, 999})
	if err != nil {
		t.Fatalf("DisplayNames failed: %v", err)
	}
	if names[a.ID] != "Alice" || names[b.ID] != "Bob" {
		t.Errorf("unexpected names %v", names)
	}
	if _, ok := names[999]; ok {
		t.Error("unknown users must be absent")
	}

	if _, err := env.users.CreateUser(ctx, "nope", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for bad email, got %v", err)
	}
}
