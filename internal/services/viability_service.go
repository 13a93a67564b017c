package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trips-club/internal/logger"
	"trips-club/internal/metrics"
	"trips-club/internal/models"
	"trips-club/internal/repository"
)

// ViabilityStats is the outcome of evaluating a proposal against its rule
type ViabilityStats struct {
	IsViable   bool  `json:"isViable"`
	Votes      int64 `json:"votes"`
	Interested int64 `json:"interested"`
	Required   int   `json:"required"`
	MinVotes   int   `json:"minVotes"`
}

// ViabilityService decides whether proposals have enough support and
// promotes them to ready_to_schedule
type ViabilityService struct {
	repo *repository.Repository
}

func NewViabilityService(repo *repository.Repository) *ViabilityService {
	return &ViabilityService{repo: repo}
}

// Evaluate computes viability without side effects. A missing trip is
// reported as not viable with zero counts and default thresholds.
func (s *ViabilityService) Evaluate(ctx context.Context, tripID uint) (*ViabilityStats, error) {
	trip, err := s.repo.GetTripByID(ctx, tripID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ViabilityStats{
			Required: models.DefaultMinInterested,
			MinVotes: models.DefaultMinVotes,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, trip)
}

func (s *ViabilityService) evaluate(ctx context.Context, trip *models.Trip) (*ViabilityStats, error) {
	votes, err := s.repo.CountVotes(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	interested, err := s.repo.CountInterests(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count interest: %w", err)
	}

	minInterested, minVotes := trip.ViabilityRule.Thresholds()
	return &ViabilityStats{
		IsViable:   votes >= int64(minVotes) && interested >= int64(minInterested),
		Votes:      votes,
		Interested: interested,
		Required:   minInterested,
		MinVotes:   minVotes,
	}, nil
}

// PromoteIfViable moves a viable proposal from voting to ready_to_schedule.
// It never moves a proposal back and reports whether this call promoted it.
func (s *ViabilityService) PromoteIfViable(ctx context.Context, tripID uint) (bool, error) {
	stats, err := s.Evaluate(ctx, tripID)
	if err != nil {
		return false, err
	}
	return s.promote(ctx, tripID, stats)
}

func (s *ViabilityService) promote(ctx context.Context, tripID uint, stats *ViabilityStats) (bool, error) {
	if !stats.IsViable {
		return false, nil
	}

	now := time.Now()
	promoted, err := s.repo.TransitionTrip(ctx, tripID, models.StatusVoting, map[string]interface{}{
		"proposal_status":   models.StatusReadyToSchedule,
		"status_changed_at": now,
		"updated_at":        now,
	})
	if err != nil {
		return false, fmt.Errorf("failed to promote trip %d: %w", tripID, err)
	}

	if promoted {
		metrics.RecordTransition(string(models.StatusVoting), string(models.StatusReadyToSchedule))
		logger.Get().LogTransition(tripID, string(models.StatusVoting), string(models.StatusReadyToSchedule), "promote")
	}
	return promoted, nil
}

// Stats evaluates a proposal and applies the promotion the result calls for
func (s *ViabilityService) Stats(ctx context.Context, tripID uint) (*ViabilityStats, error) {
	stats, err := s.Evaluate(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if _, err := s.promote(ctx, tripID, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SweepViable promotes every viable proposal still in voting and returns how
// many were promoted
func (s *ViabilityService) SweepViable(ctx context.Context) (int, error) {
	ids, err := s.repo.ListTripIDsByStatus(ctx, models.StatusVoting)
	if err != nil {
		return 0, fmt.Errorf("failed to list voting proposals: %w", err)
	}

	promoted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return promoted, err
		}
		ok, err := s.PromoteIfViable(ctx, id)
		if err != nil {
			return promoted, err
		}
		if ok {
			promoted++
		}
	}
	return promoted, nil
}
