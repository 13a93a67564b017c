package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trips-club/internal/models"
)

// CreateCreditTransaction appends a row to the credit ledger
func (r *Repository) CreateCreditTransaction(ctx context.Context, txn *models.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// IncrementBalance adds delta to the user's balance, creating the profile on
// first use
func (r *Repository) IncrementBalance(ctx context.Context, userID uint, delta int64) error {
	profile := models.UserProfile{
		UserID:            userID,
		TravelCreditCents: delta,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"travel_credit_cents": gorm.Expr("user_profiles.travel_credit_cents + ?", delta),
			"updated_at":          time.Now(),
		}),
	}).Create(&profile).Error
}

// DecrementBalance subtracts amount only when the balance covers it and
// reports whether it did
func (r *Repository) DecrementBalance(ctx context.Context, userID uint, amount int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("user_id = ? AND travel_credit_cents >= ?", userID, amount).
		Updates(map[string]interface{}{
			"travel_credit_cents": gorm.Expr("travel_credit_cents - ?", amount),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetBalance overwrites the user's balance, creating the profile if needed
func (r *Repository) SetBalance(ctx context.Context, userID uint, cents int64) error {
	profile := models.UserProfile{
		UserID:            userID,
		TravelCreditCents: cents,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"travel_credit_cents", "updated_at"}),
	}).Create(&profile).Error
}

// GetProfile retrieves the user's profile
func (r *Repository) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// SumCredits totals the user's ledger
func (r *Repository) SumCredits(ctx context.Context, userID uint) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.CreditTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&sum).Error
	return sum, err
}

// ListCreditTransactions returns the user's ledger, newest first
func (r *Repository) ListCreditTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	var txns []models.CreditTransaction
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&txns).Error
	return txns, err
}

// CountCreditTransactions counts ledger rows of a type for a reference
func (r *Repository) CountCreditTransactions(ctx context.Context, txType models.CreditTransactionType, referenceType, referenceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CreditTransaction{}).
		Where("type = ? AND reference_type = ? AND reference_id = ?", txType, referenceType, referenceID).
		Count(&count).Error
	return count, err
}

// ListCreditUserIDs returns every user that has a ledger row or a profile
func (r *Repository) ListCreditUserIDs(ctx context.Context) ([]uint, error) {
	var fromLedger, fromProfiles []uint
	if err := r.db.WithContext(ctx).Model(&models.CreditTransaction{}).Distinct().Pluck("user_id", &fromLedger).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.UserProfile{}).Pluck("user_id", &fromProfiles).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var ids []uint
	for _, id := range append(fromLedger, fromProfiles...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
