package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trips-club/internal/models"
)

// CreateTrip creates a new trip. A zero creator reward is written explicitly
// since gorm would otherwise leave the column to its default.
func (r *Repository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	zeroReward := trip.CreatorRewardCents == 0
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return err
		}
		if !zeroReward {
			return nil
		}
		if err := tx.Model(trip).UpdateColumn("creator_reward_cents", 0).Error; err != nil {
			return err
		}
		trip.CreatorRewardCents = 0
		return nil
	})
}

// GetTripByID retrieves a trip by ID
func (r *Repository) GetTripByID(ctx context.Context, tripID uint) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &trip, nil
}

// GetTripBySlug retrieves a trip by its slug
func (r *Repository) GetTripBySlug(ctx context.Context, slug string) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&trip).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &trip, nil
}

// SlugExists reports whether a trip already uses slug
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Trip{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// TripFilter narrows a proposal listing
type TripFilter struct {
	Statuses      []models.ProposalStatus
	PublishedOnly bool
	Limit         int
	Offset        int
}

// ListTrips returns proposals matching filter, newest first, with the total
// count before pagination
func (r *Repository) ListTrips(ctx context.Context, filter TripFilter) ([]models.Trip, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Trip{})
	if len(filter.Statuses) > 0 {
		query = query.Where("proposal_status IN ?", filter.Statuses)
	} else {
		query = query.Where("proposal_status IS NOT NULL")
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []models.Trip
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&trips).Error; err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// ListTripIDsByStatus returns the ids of every proposal in status
func (r *Repository) ListTripIDsByStatus(ctx context.Context, status models.ProposalStatus) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Trip{}).
		Where("proposal_status = ?", status).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// TransitionTrip applies updates only while the trip is still in status from.
// It reports whether the row was changed, so a concurrent transition loses.
func (r *Repository) TransitionTrip(ctx context.Context, tripID uint, from models.ProposalStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Trip{}).
		Where("id = ? AND proposal_status = ?", tripID, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClaimReward marks the creator reward as paid. Only the first caller gets
// true; every later call is a no-op.
func (r *Repository) ClaimReward(ctx context.Context, tripID uint, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Trip{}).
		Where("id = ? AND reward_paid_at IS NULL", tripID).
		Update("reward_paid_at", paidAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
