package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"trips-club/internal/models"
)

// CreateVote inserts vote unless the user already voted for the trip. It
// reports whether a row was inserted; the unique index decides, not a
// preceding read.
func (r *Repository) CreateVote(ctx context.Context, vote *models.Vote) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "trip_id"}},
		DoNothing: true,
	}).Create(vote)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteVote removes the user's vote for a trip, if any
func (r *Repository) DeleteVote(ctx context.Context, userID, tripID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		Delete(&models.Vote{}).Error
}

// HasVote reports whether the user voted for the trip
func (r *Repository) HasVote(ctx context.Context, userID, tripID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND trip_id = ?", userID, tripID).
		Count(&count).Error
	return count > 0, err
}

// CountVotes returns the number of votes for a trip
func (r *Repository) CountVotes(ctx context.Context, tripID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("trip_id = ?", tripID).Count(&count).Error
	return count, err
}

// ListVotesByUser returns the user's votes with their trips, newest first
func (r *Repository) ListVotesByUser(ctx context.Context, userID uint) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Preload("Trip").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&votes).Error
	return votes, err
}
