package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"trips-club/internal/logger"
	"trips-club/internal/metrics"
	"trips-club/internal/models"
	"trips-club/internal/repository"
	"trips-club/internal/utils"
)

const slugAttempts = 5

// transition describes one admin action on the proposal state machine
type transition struct {
	action string
	from   []models.ProposalStatus
	to     models.ProposalStatus
}

func (t transition) allows(status models.ProposalStatus) bool {
	for _, s := range t.from {
		if s == status {
			return true
		}
	}
	return false
}

var (
	approveTransition = transition{
		action: "approve",
		from:   []models.ProposalStatus{models.StatusPendingReview},
		to:     models.StatusVoting,
	}
	scheduleTransition = transition{
		action: "schedule",
		from:   []models.ProposalStatus{models.StatusVoting, models.StatusReadyToSchedule},
		to:     models.StatusScheduled,
	}
	archiveTransition = transition{
		action: "archive",
		from:   []models.ProposalStatus{models.StatusPendingReview, models.StatusVoting},
		to:     models.StatusArchived,
	}
	reopenTransition = transition{
		action: "reopen",
		from:   []models.ProposalStatus{models.StatusVoting, models.StatusArchived},
		to:     models.StatusPendingReview,
	}
)

// LifecycleService creates proposals and moves them through review, voting
// and scheduling
type LifecycleService struct {
	repo               *repository.Repository
	credits            *CreditService
	admin              *AdminService
	defaultRewardCents int64
}

func NewLifecycleService(repo *repository.Repository, credits *CreditService, admin *AdminService, defaultRewardCents int64) *LifecycleService {
	return &LifecycleService{
		repo:               repo,
		credits:            credits,
		admin:              admin,
		defaultRewardCents: defaultRewardCents,
	}
}

// Create stores a validated draft as a proposal awaiting review. Member
// proposals need a creator; admin seeds use SourceNTG.
func (s *LifecycleService) Create(ctx context.Context, draft *TripDraft, source models.SourceType, creatorID *uint, adminID uint) (*models.Trip, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	switch source {
	case models.SourceMember:
		if creatorID == nil {
			return nil, fmt.Errorf("%w: member proposals need a creator", ErrValidation)
		}
	case models.SourceNTG:
	default:
		return nil, fmt.Errorf("%w: unknown source type %q", ErrValidation, source)
	}

	slug, err := s.uniqueSlug(ctx, draft.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trip := &models.Trip{
		Slug:               slug,
		Title:              draft.Title,
		Summary:            draft.Summary,
		Description:        draft.Description,
		Destination:        draft.Destination,
		StartDate:          draft.StartDate,
		EndDate:            draft.EndDate,
		PriceCents:         draft.PriceCents,
		HeroImageURL:       draft.HeroImageURL,
		SourceType:         source,
		CreatedByUserID:    creatorID,
		ProposalStatus:     models.StatusPendingReview,
		ViabilityRule:      draft.ViabilityRule,
		IsPublished:        false,
		CreatorRewardCents: s.defaultRewardCents,
		StatusChangedAt:    &now,
	}
	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	metrics.RecordTransition(string(models.StatusNotAProposal), string(models.StatusPendingReview))
	logger.Get().LogTransition(trip.ID, "", string(models.StatusPendingReview), "create")
	s.admin.LogAdminAction(ctx, adminID, ActionCreateProposal, "TRIP", &trip.ID, map[string]interface{}{
		"title": trip.Title,
	})
	return trip, nil
}

func (s *LifecycleService) uniqueSlug(ctx context.Context, title string) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		slug, err := utils.GenerateSlug(title)
		if err != nil {
			return "", err
		}
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
	}
	return "", fmt.Errorf("could not find a free slug for %q", title)
}

// Get looks a trip up by numeric id or by slug
func (s *LifecycleService) Get(ctx context.Context, idOrSlug string) (*models.Trip, error) {
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		return s.repo.GetTripByID(ctx, uint(id))
	}
	return s.repo.GetTripBySlug(ctx, idOrSlug)
}

// ListPublic returns published proposals that are open for voting
func (s *LifecycleService) ListPublic(ctx context.Context, limit, offset int) ([]models.Trip, int64, error) {
	return s.repo.ListTrips(ctx, repository.TripFilter{
		Statuses:      []models.ProposalStatus{models.StatusVoting, models.StatusReadyToSchedule},
		PublishedOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
}

// ListByStatus returns proposals in the named status
func (s *LifecycleService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Trip, int64, error) {
	st, ok := models.ParseProposalStatus(status)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.repo.ListTrips(ctx, repository.TripFilter{
		Statuses: []models.ProposalStatus{st},
		Limit:    limit,
		Offset:   offset,
	})
}

// ListPending returns proposals awaiting review
func (s *LifecycleService) ListPending(ctx context.Context, limit, offset int) ([]models.Trip, int64, error) {
	return s.ListByStatus(ctx, string(models.StatusPendingReview), limit, offset)
}

// apply performs t on the proposal inside one database transaction. updates
// returns the action's own columns; after runs in the same transaction once
// the status has moved. A proposal already in the target state comes back
// unchanged with changed=false.
func (s *LifecycleService) apply(
	ctx context.Context,
	tripID uint,
	t transition,
	updates func(now time.Time) map[string]interface{},
	after func(tx *repository.Repository, trip *models.Trip, now time.Time) error,
) (trip *models.Trip, from models.ProposalStatus, changed bool, err error) {
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.GetTripByID(ctx, tripID)
		if err != nil {
			return fmt.Errorf("proposal %d: %w", tripID, err)
		}
		if !current.ProposalStatus.IsProposal() {
			return fmt.Errorf("trip %d is not a proposal: %w", tripID, ErrNotFound)
		}
		from = current.ProposalStatus

		if from == t.to {
			trip = current
			return nil
		}
		if !t.allows(from) {
			return fmt.Errorf("%w: cannot %s a proposal in %s", ErrInvalidTransition, t.action, from)
		}

		now := time.Now()
		values := map[string]interface{}{
			"proposal_status":   t.to,
			"status_changed_at": now,
			"updated_at":        now,
		}
		if updates != nil {
			for k, v := range updates(now) {
				values[k] = v
			}
		}

		moved, err := tx.TransitionTrip(ctx, tripID, from, values)
		if err != nil {
			return fmt.Errorf("failed to %s proposal %d: %w", t.action, tripID, err)
		}
		if !moved {
			return fmt.Errorf("%w: proposal %d changed concurrently", ErrInvalidTransition, tripID)
		}

		if after != nil {
			if err := after(tx, current, now); err != nil {
				return err
			}
		}

		trip, err = tx.GetTripByID(ctx, tripID)
		if err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, from, false, err
	}

	if changed {
		metrics.RecordTransition(string(from), string(t.to))
		logger.Get().LogTransition(tripID, string(from), string(t.to), t.action)
	}
	return trip, from, changed, nil
}

// Approve opens a reviewed proposal for voting and publishes it
func (s *LifecycleService) Approve(ctx context.Context, tripID uint, notes string, adminID uint) (*models.Trip, error) {
	trip, from, changed, err := s.apply(ctx, tripID, approveTransition, func(now time.Time) map[string]interface{} {
		updates := map[string]interface{}{
			"is_published": true,
			"reviewed_at":  now,
		}
		if notes != "" {
			updates["admin_notes"] = notes
		}
		return updates
	}, nil)
	if err != nil {
		return nil, err
	}

	if changed {
		s.admin.LogAdminAction(ctx, adminID, ActionApproveProposal, "TRIP", &tripID, map[string]interface{}{
			"from": string(from),
		})
	}
	return trip, nil
}

// ScheduleResult is the outcome of scheduling a proposal
type ScheduleResult struct {
	Trip   *models.Trip              `json:"trip"`
	Reward *models.CreditTransaction `json:"reward,omitempty"`
}

// Schedule commits a proposal to the calendar and pays the creator reward.
// The reward is paid at most once per trip, however often Schedule runs.
func (s *LifecycleService) Schedule(ctx context.Context, tripID uint, adminID uint) (*ScheduleResult, error) {
	var reward *models.CreditTransaction

	trip, from, changed, err := s.apply(ctx, tripID, scheduleTransition, func(now time.Time) map[string]interface{} {
		return map[string]interface{}{"scheduled_at": now}
	}, func(tx *repository.Repository, trip *models.Trip, now time.Time) error {
		var err error
		reward, err = s.payCreatorReward(ctx, tx, trip, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		details := map[string]interface{}{"from": string(from)}
		if reward != nil {
			s.credits.recorded(reward)
			metrics.CreatorRewardsTotal.Inc()
			details["reward_cents"] = reward.AmountCents
			details["reward_user_id"] = reward.UserID
		}
		s.admin.LogAdminAction(ctx, adminID, ActionScheduleProposal, "TRIP", &tripID, details)
	}
	return &ScheduleResult{Trip: trip, Reward: reward}, nil
}

// payCreatorReward grants the creator reward through tx. The reward_paid_at
// claim decides whether this call pays.
func (s *LifecycleService) payCreatorReward(ctx context.Context, tx *repository.Repository, trip *models.Trip, now time.Time) (*models.CreditTransaction, error) {
	if !trip.RewardEligible() || trip.CreatorRewardCents <= 0 {
		return nil, nil
	}

	claimed, err := tx.ClaimReward(ctx, trip.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to claim creator reward: %w", err)
	}
	if !claimed {
		return nil, nil
	}

	return s.credits.grantWith(ctx, tx, GrantRequest{
		UserID:        *trip.CreatedByUserID,
		AmountCents:   trip.CreatorRewardCents,
		Type:          models.CreditCreatorReward,
		ReferenceType: models.ReferenceTrip,
		ReferenceID:   strconv.FormatUint(uint64(trip.ID), 10),
		Description:   fmt.Sprintf("Creator reward: %s", trip.Title),
	})
}

// Archive retires a proposal and unpublishes it. reason, when given, is
// stored as the admin notes.
func (s *LifecycleService) Archive(ctx context.Context, tripID uint, reason string, adminID uint) (*models.Trip, error) {
	trip, from, changed, err := s.apply(ctx, tripID, archiveTransition, func(now time.Time) map[string]interface{} {
		updates := map[string]interface{}{"is_published": false}
		if reason != "" {
			updates["admin_notes"] = reason
		}
		return updates
	}, nil)
	if err != nil {
		return nil, err
	}

	if changed {
		s.admin.LogAdminAction(ctx, adminID, ActionArchiveProposal, "TRIP", &tripID, map[string]interface{}{
			"from":   string(from),
			"reason": reason,
		})
	}
	return trip, nil
}

// Reopen sends a voting or archived proposal back to review
func (s *LifecycleService) Reopen(ctx context.Context, tripID uint, adminID uint) (*models.Trip, error) {
	trip, from, changed, err := s.apply(ctx, tripID, reopenTransition, func(now time.Time) map[string]interface{} {
		return map[string]interface{}{"is_published": false}
	}, nil)
	if err != nil {
		return nil, err
	}

	if changed {
		s.admin.LogAdminAction(ctx, adminID, ActionReopenProposal, "TRIP", &tripID, map[string]interface{}{
			"from": string(from),
		})
	}
	return trip, nil
}

// SetStatus backs the direct status endpoint. Accepted values are approved,
// archived and pending_review.
func (s *LifecycleService) SetStatus(ctx context.Context, tripID uint, status string, notes string, adminID uint) (*models.Trip, error) {
	switch status {
	case "approved":
		return s.Approve(ctx, tripID, notes, adminID)
	case string(models.StatusArchived):
		return s.Archive(ctx, tripID, notes, adminID)
	case string(models.StatusPendingReview):
		return s.Reopen(ctx, tripID, adminID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}
