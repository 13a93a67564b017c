package services

import (
	"context"
	"fmt"
	"strings"

	"trips-club/internal/models"
	"trips-club/internal/repository"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	return user, nil
}

// CreateUser registers a member mirrored from the identity provider
func (s *UserService) CreateUser(ctx context.Context, email, displayName string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}

	user := &models.User{Email: email, DisplayName: strings.TrimSpace(displayName)}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// DisplayNames returns display names for the given users. Unknown users are
// absent from the map.
func (s *UserService) DisplayNames(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	users, err := s.repo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(users))
	for id, u := range users {
		names[id] = u.DisplayName
	}
	return names, nil
}
