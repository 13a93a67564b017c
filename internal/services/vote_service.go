package services

import (
	"context"
	"fmt"

	"trips-club/internal/metrics"
	"trips-club/internal/models"
	"trips-club/internal/repository"
)

// VoteService maintains the one-vote-per-member ledger
type VoteService struct {
	repo *repository.Repository
}

func NewVoteService(repo *repository.Repository) *VoteService {
	return &VoteService{repo: repo}
}

// AddVote records the user's vote. Only proposals in voting or
// ready_to_schedule accept votes.
func (s *VoteService) AddVote(ctx context.Context, userID, tripID uint) (*models.Vote, error) {
	trip, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("trip %d: %w", tripID, err)
	}
	if !trip.ProposalStatus.IsOpen() {
		return nil, ErrProposalClosed
	}

	vote := &models.Vote{UserID: userID, TripID: tripID}
	created, err := s.repo.CreateVote(ctx, vote)
	if err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	if !created {
		metrics.VotesTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyVoted
	}

	metrics.VotesTotal.WithLabelValues("add").Inc()
	return vote, nil
}

// RemoveVote deletes the user's vote; removing a missing vote succeeds
func (s *VoteService) RemoveVote(ctx context.Context, userID, tripID uint) error {
	if _, err := s.repo.GetTripByID(ctx, tripID); err != nil {
		return fmt.Errorf("trip %d: %w", tripID, err)
	}
	if err := s.repo.DeleteVote(ctx, userID, tripID); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}
	metrics.VotesTotal.WithLabelValues("remove").Inc()
	return nil
}

// HasVoted reports whether the user voted for the trip
func (s *VoteService) HasVoted(ctx context.Context, userID, tripID uint) (bool, error) {
	return s.repo.HasVote(ctx, userID, tripID)
}

// GetVoteCount returns the number of votes for the trip
func (s *VoteService) GetVoteCount(ctx context.Context, tripID uint) (int64, error) {
	return s.repo.CountVotes(ctx, tripID)
}

// ListUserVotes returns the user's votes with their proposals, newest first
func (s *VoteService) ListUserVotes(ctx context.Context, userID uint) ([]models.Vote, error) {
	return s.repo.ListVotesByUser(ctx, userID)
}
