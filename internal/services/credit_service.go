package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"trips-club/internal/logger"
	"trips-club/internal/metrics"
	"trips-club/internal/models"
	"trips-club/internal/repository"
)

// CreditService owns the travel credit ledger. Every write appends a
// CreditTransaction and moves the profile balance in the same database
// transaction, so the balance always equals the ledger sum.
type CreditService struct {
	repo *repository.Repository
}

func NewCreditService(repo *repository.Repository) *CreditService {
	return &CreditService{repo: repo}
}

// GrantRequest describes a positive credit movement
type GrantRequest struct {
	UserID        uint
	AmountCents   int64
	Type          models.CreditTransactionType
	ReferenceType string
	ReferenceID   string
	Description   string
}

// Grant credits a user
func (s *CreditService) Grant(ctx context.Context, req GrantRequest) (*models.CreditTransaction, error) {
	var txn *models.CreditTransaction
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		txn, err = s.grantWith(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorded(txn)
	return txn, nil
}

// grantWith writes a grant through repo, which callers bind to their own
// transaction
func (s *CreditService) grantWith(ctx context.Context, repo *repository.Repository, req GrantRequest) (*models.CreditTransaction, error) {
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: grant amount must be positive", ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, req.Type)
	}

	txn := &models.CreditTransaction{
		UserID:        req.UserID,
		AmountCents:   req.AmountCents,
		Type:          req.Type,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Description:   req.Description,
	}
	if err := repo.CreateCreditTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record credit grant: %w", err)
	}
	if err := repo.IncrementBalance(ctx, req.UserID, req.AmountCents); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	return txn, nil
}

// debit removes credits when the balance covers them
func (s *CreditService) debit(ctx context.Context, userID uint, amountCents int64, txType models.CreditTransactionType,
	referenceType, referenceID, description string) (*models.CreditTransaction, error) {

	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: debit amount must be positive", ErrValidation)
	}

	var txn *models.CreditTransaction
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.DecrementBalance(ctx, userID, amountCents)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if !ok {
			return ErrInsufficientCredits
		}

		txn = &models.CreditTransaction{
			UserID:        userID,
			AmountCents:   -amountCents,
			Type:          txType,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
			Description:   description,
		}
		if err := tx.CreateCreditTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to record credit use: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorded(txn)
	return txn, nil
}

// Use spends credits on a booking
func (s *CreditService) Use(ctx context.Context, userID uint, amountCents int64, bookingID, description string) (*models.CreditTransaction, error) {
	return s.debit(ctx, userID, amountCents, models.CreditBookingUsed, models.ReferenceBooking, bookingID, description)
}

// Adjust applies a signed admin correction
func (s *CreditService) Adjust(ctx context.Context, userID uint, deltaCents int64, description string, adminID uint) (*models.CreditTransaction, error) {
	reference := strconv.FormatUint(uint64(adminID), 10)
	switch {
	case deltaCents > 0:
		return s.Grant(ctx, GrantRequest{
			UserID:        userID,
			AmountCents:   deltaCents,
			Type:          models.CreditAdminAdjustment,
			ReferenceType: models.ReferenceAdmin,
			ReferenceID:   reference,
			Description:   description,
		})
	case deltaCents < 0:
		return s.debit(ctx, userID, -deltaCents, models.CreditAdminAdjustment, models.ReferenceAdmin, reference, description)
	default:
		return nil, fmt.Errorf("%w: adjustment must not be zero", ErrValidation)
	}
}

// GetBalance returns the user's balance in cents, 0 without a profile
func (s *CreditService) GetBalance(ctx context.Context, userID uint) (int64, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.TravelCreditCents, nil
}

// GetHistory returns the user's ledger, newest first
func (s *CreditService) GetHistory(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	return s.repo.ListCreditTransactions(ctx, userID, limit, offset)
}

// ReconcileResult reports a balance recomputed from the ledger
type ReconcileResult struct {
	UserID uint  `json:"user_id"`
	Before int64 `json:"before_cents"`
	After  int64 `json:"after_cents"`
}

// Drift is the amount the stored balance was off by
func (r ReconcileResult) Drift() int64 {
	return r.Before - r.After
}

// Reconcile rewrites the user's balance from the ledger sum
func (s *CreditService) Reconcile(ctx context.Context, userID uint) (*ReconcileResult, error) {
	result := &ReconcileResult{UserID: userID}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		profile, err := tx.GetProfile(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if profile != nil {
			result.Before = profile.TravelCreditCents
		}

		sum, err := tx.SumCredits(ctx, userID)
		if err != nil {
			return err
		}
		result.After = sum

		if profile == nil && sum == 0 {
			return nil
		}
		return tx.SetBalance(ctx, userID, sum)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile user %d: %w", userID, err)
	}

	if result.Drift() != 0 {
		logger.WithFields(logger.Fields{
			"user_id":      userID,
			"before_cents": result.Before,
			"after_cents":  result.After,
		}).Warn("Credit balance drift corrected")
	}
	return result, nil
}

// ReconcileAll reconciles every user with credit activity
func (s *CreditService) ReconcileAll(ctx context.Context) ([]ReconcileResult, error) {
	ids, err := s.repo.ListCreditUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ReconcileResult, 0, len(ids))
	for _, id := range ids {
		res, err := s.Reconcile(ctx, id)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *CreditService) recorded(txn *models.CreditTransaction) {
	metrics.RecordCredit(string(txn.Type), txn.AmountCents)
	logger.Get().LogCredit(txn.UserID, txn.AmountCents, string(txn.Type), txn.ReferenceType, txn.ReferenceID)
}
