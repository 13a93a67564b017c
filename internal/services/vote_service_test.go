package services

import (
	"context"
	"errors"
	"testing"

	"trips-club/internal/models"
)

func TestDoubleVoteIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.seedTrip(t, models.StatusVoting, nil)

	if _, err := env.votes.AddVote(ctx, 1, trip.ID); err != nil {
		t.Fatalf("AddVote failed: %v", err)
	}
	if _, err := env.votes.AddVote(ctx, 1, trip.ID); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	count, err := env.votes.GetVoteCount(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetVoteCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 vote, got %d", count)
	}
}

func TestVotesOnlyOnOpenProposals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, status := range []models.ProposalStatus{
		models.StatusPendingReview,
		models.StatusScheduled,
		models.StatusArchived,
		models.StatusNotAProposal,
	} {
		trip := env.seedTrip(t, status, nil)
		if _, err := env.votes.AddVote(ctx, 1, trip.ID); !errors.Is(err, ErrProposalClosed) {
			t.Errorf("vote on %q: expected ErrProposalClosed, got %v", status, err)
		}
	}

	ready := env.seedTrip(t, models.StatusReadyToSchedule, nil)
	if _, err := env.votes.AddVote(ctx, 1, ready.ID); err != nil {
		t.Errorf("vote on ready_to_schedule should be accepted, got %v", err)
	}

	if _, err := env.votes.AddVote(ctx, 1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing trip, got %v", err)
	}
}

func TestRemoveVoteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.seedTrip(t, models.StatusVoting, nil)

	if _, err := env.votes.AddVote(ctx, 3, trip.ID); err != nil {
		t.Fatalf("AddVote failed: %v", err)
	}
	voted, _ := env.votes.HasVoted(ctx, 3, trip.ID)
	if !voted {
		t.Fatal("expected HasVoted after AddVote")
	}

	for i := 0; i < 2; i++ {
		if err := env.votes.RemoveVote(ctx, 3, trip.ID); err != nil {
			t.Fatalf("RemoveVote #%d failed: %v", i+1, err)
		}
	}

	voted, _ = env.votes.HasVoted(ctx, 3, trip.ID)
	if voted {
		t.Error("expected vote to be gone")
	}

	// a removed vote can be cast again
	if _, err := env.votes.AddVote(ctx, 3, trip.ID); err != nil {
		t.Errorf("re-vote failed: %v", err)
	}
}

func TestListUserVotesIncludesTrips(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedTrip(t, models.StatusVoting, nil)
	b := env.seedTrip(t, models.StatusVoting, nil)

	env.votes.AddVote(ctx, 5, a.ID)
	env.votes.AddVote(ctx, 5, b.ID)
	env.votes.AddVote(ctx, 6, a.ID)

	votes, err := env.votes.ListUserVotes(ctx, 5)
	if err != nil {
		t.Fatalf("ListUserVotes failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(votes))
	}
	for _, v := range votes {
		if v.Trip == nil || v.Trip.ID != v.TripID {
			t.Errorf("expected preloaded trip on vote %+v", v)
		}
	}
}

func TestRemoveOnMissingTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.votes.RemoveVote(ctx, 3, 4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing a vote, got %v", err)
	}
	if err := env.interest.RemoveInterest(ctx, 3, 4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing interest, got %v", err)
	}
}
