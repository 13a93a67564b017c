package services

import (
	"context"
	"errors"
	"fmt"

	"trips-club/internal/metrics"
	"trips-club/internal/models"
	"trips-club/internal/repository"
)

// InterestService maintains the per-member interest (favorite) ledger.
// Interest is accepted on any trip, proposal or not.
type InterestService struct {
	repo *repository.Repository
}

func NewInterestService(repo *repository.Repository) *InterestService {
	return &InterestService{repo: repo}
}

func normalizeVisibility(v models.Visibility) (models.Visibility, error) {
	if v == "" {
		return models.VisibilityAnonymous, nil
	}
	if !v.Valid() {
		return "", fmt.Errorf("%w: unknown visibility %q", ErrValidation, v)
	}
	return v, nil
}

// AddInterest registers the user's interest. When the user is already
// interested the call updates visibility and note instead and reports
// created=false.
func (s *InterestService) AddInterest(ctx context.Context, userID, tripID uint, visibility models.Visibility, note *string) (*models.TripInterest, bool, error) {
	interest, err := s.CreateInterest(ctx, userID, tripID, visibility, note)
	if errors.Is(err, ErrAlreadyInterested) {
		updated, err := s.UpdateVisibility(ctx, userID, tripID, visibility, note)
		return updated, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return interest, true, nil
}

// CreateInterest inserts a new interest row and fails with
// ErrAlreadyInterested when one exists.
func (s *InterestService) CreateInterest(ctx context.Context, userID, tripID uint, visibility models.Visibility, note *string) (*models.TripInterest, error) {
	visibility, err := normalizeVisibility(visibility)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetTripByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("trip %d: %w", tripID, err)
	}

	interest := &models.TripInterest{
		UserID:           userID,
		TripID:           tripID,
		InterestLevel:    models.InterestInterested,
		PublicVisibility: visibility,
	}
	if note != nil {
		interest.Note = *note
	}

	created, err := s.repo.CreateInterest(ctx, interest)
	if err != nil {
		return nil, fmt.Errorf("failed to record interest: %w", err)
	}
	if !created {
		return nil, ErrAlreadyInterested
	}

	metrics.InterestTotal.WithLabelValues("add").Inc()
	return interest, nil
}

// UpdateVisibility changes how the user's interest is shown. A nil note
// leaves the stored note untouched.
func (s *InterestService) UpdateVisibility(ctx context.Context, userID, tripID uint, visibility models.Visibility, note *string) (*models.TripInterest, error) {
	visibility, err := normalizeVisibility(visibility)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateInterest(ctx, userID, tripID, visibility, note); err != nil {
		return nil, fmt.Errorf("interest of user %d in trip %d: %w", userID, tripID, err)
	}

	metrics.InterestTotal.WithLabelValues("update").Inc()
	return s.repo.GetInterest(ctx, userID, tripID)
}

// RemoveInterest deletes the user's interest; removing a missing row succeeds
func (s *InterestService) RemoveInterest(ctx context.Context, userID, tripID uint) error {
	if _, err := s.repo.GetTripByID(ctx, tripID); err != nil {
		return fmt.Errorf("trip %d: %w", tripID, err)
	}
	if err := s.repo.DeleteInterest(ctx, userID, tripID); err != nil {
		return fmt.Errorf("failed to remove interest: %w", err)
	}
	metrics.InterestTotal.WithLabelValues("remove").Inc()
	return nil
}

// GetInterestCount returns the number of interested members
func (s *InterestService) GetInterestCount(ctx context.Context, tripID uint) (int64, error) {
	return s.repo.CountInterests(ctx, tripID)
}

// ListInterest returns every interest row for the trip, newest first. Rows
// carry user ids; callers showing them publicly must redact anonymous ones.
func (s *InterestService) ListInterest(ctx context.Context, tripID uint) ([]models.TripInterest, error) {
	return s.repo.ListInterests(ctx, tripID)
}
