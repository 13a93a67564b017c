package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"trips-club/internal/models"
)

// CreateInterest inserts interest unless the user already registered
// interest in the trip, reporting whether a row was inserted
func (r *Repository) CreateInterest(ctx context.Context, interest *models.TripInterest) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "trip_id"}},
		DoNothing: true,
	}).Create(interest)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetInterest retrieves the user's interest in a trip
func (r *Repository) GetInterest(ctx context.Context, userID, tripID uint) (*models.TripInterest, error) {
	var interest models.TripInterest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		First(&interest).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &interest, nil
}

// UpdateInterest changes visibility and, when note is non-nil, the note
func (r *Repository) UpdateInterest(ctx context.Context, userID, tripID uint, visibility models.Visibility, note *string) error {
	updates := map[string]interface{}{
		"public_visibility": visibility,
		"updated_at":        time.Now(),
	}
	if note != nil {
		updates["note"] = *note
	}

	result := r.db.WithContext(ctx).Model(&models.TripInterest{}).
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInterest removes the user's interest in a trip, if any
func (r *Repository) DeleteInterest(ctx context.Context, userID, tripID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		Delete(&models.TripInterest{}).Error
}

// CountInterests returns the number of interested users for a trip
func (r *Repository) CountInterests(ctx context.Context, tripID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TripInterest{}).Where("trip_id = ?", tripID).Count(&count).Error
	return count, err
}

// ListInterests returns every interest row for a trip, newest first
func (r *Repository) ListInterests(ctx context.Context, tripID uint) ([]models.TripInterest, error) {
	var interests []models.TripInterest
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&interests).Error
	return interests, err
}
