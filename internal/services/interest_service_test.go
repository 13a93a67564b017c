package services

import (
	"context"
	"errors"
	"testing"

	"trips-club/internal/models"
)

func TestAddInterestTwiceUpdatesVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.seedTrip(t, models.StatusVoting, nil)

	first, created, err := env.interest.AddInterest(ctx, 1, trip.ID, "", strPtr("count me in"))
	if err != nil {
		t.Fatalf("AddInterest failed: %v", err)
	}
	if !created || first.PublicVisibility != models.VisibilityAnonymous {
		t.Fatalf("expected new anonymous interest, got created=%v %+v", created, first)
	}

	second, created, err := env.interest.AddInterest(ctx, 1, trip.ID, models.VisibilityNamed, nil)
	if err != nil {
		t.Fatalf("second AddInterest failed: %v", err)
	}
	if created {
		t.Error("second AddInterest must not create a row")
	}
	if second.PublicVisibility != models.VisibilityNamed {
		t.Errorf("expected visibility named, got %q", second.PublicVisibility)
	}
	if second.Note != "count me in" {
		t.Errorf("nil note must keep the stored note, got %q", second.Note)
	}

	count, _ := env.interest.GetInterestCount(ctx, trip.ID)
	if count != 1 {
		t.Errorf("expected 1 interest row, got %d", count)
	}
}

func TestCreateInterestRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.seedTrip(t, models.StatusVoting, nil)

	if _, err := env.interest.CreateInterest(ctx, 1, trip.ID, models.VisibilityNamed, nil); err != nil {
		t.Fatalf("CreateInterest failed: %v", err)
	}
	if _, err := env.interest.CreateInterest(ctx, 1, trip.ID, models.VisibilityNamed, nil); !errors.Is(err, ErrAlreadyInterested) {
		t.Errorf("expected ErrAlreadyInterested, got %v", err)
	}
}

func TestAddInterestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.seedTrip(t, models.StatusVoting, nil)

	if _, _, err := env.interest.AddInterest(ctx, 1, trip.ID, "public", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown visibility, got %v", err)
	}
	if _, _, err := env.interest.AddInterest(ctx, 1, 4242, "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing trip, got %v", err)
	}
	if _, err := env.interest.UpdateVisibility(ctx, 1, trip.ID, models.VisibilityNamed, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound when updating absent interest, got %v", err)
	}
}

func TestInterestAcceptedOnLegacyAndClosedTrips(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, status := range []models.ProposalStatus{models.StatusNotAProposal, models.StatusScheduled} {
		trip := env.seedTrip(t, status, nil)
		if _, _, err := env.interest.AddInterest(ctx, 1, trip.ID, "", nil); err != nil {
			t.Errorf("interest on %q should be accepted, got %v", status, err)
		}
	}
}

func TestRemoveInterestAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trip := env.seedTrip(t, models.StatusVoting, nil)

	env.interest.AddInterest(ctx, 1, trip.ID, models.VisibilityNamed, nil)
	env.interest.AddInterest(ctx, 2, trip.ID, "", nil)

	list, err := env.interest.ListInterest(ctx, trip.ID)
	if err != nil {
		t.Fatalf("ListInterest failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}

	if err := env.interest.RemoveInterest(ctx, 2, trip.ID); err != nil {
		t.Fatalf("RemoveInterest failed: %v", err)
	}
	if err := env.interest.RemoveInterest(ctx, 2, trip.ID); err != nil {
		t.Fatalf("second RemoveInterest failed: %v", err)
	}

	count, _ := env.interest.GetInterestCount(ctx, trip.ID)
	if count != 1 {
		t.Errorf("expected 1 remaining, got %d", count)
	}
}
