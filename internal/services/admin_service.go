package services

import (
	"context"
	"errors"
	"fmt"

	"trips-club/internal/logger"
	"trips-club/internal/models"
	"trips-club/internal/repository"
)

// Admin actions written to the audit log
const (
	ActionCreateProposal   = "CREATE_PROPOSAL"
	ActionApproveProposal  = "APPROVE_PROPOSAL"
	ActionScheduleProposal = "SCHEDULE_PROPOSAL"
	ActionArchiveProposal  = "ARCHIVE_PROPOSAL"
	ActionReopenProposal   = "REOPEN_PROPOSAL"
	ActionAdjustCredits    = "ADJUST_CREDITS"
	ActionPromoteUser      = "PROMOTE_USER"
)

type AdminService struct {
	repo *repository.Repository
}

func NewAdminService(repo *repository.Repository) *AdminService {
	return &AdminService{
		repo: repo,
	}
}

// IsAdmin checks if a user is an admin
func (s *AdminService) IsAdmin(ctx context.Context, userID uint) bool {
	_, err := s.repo.GetAdminByUserID(ctx, userID)
	return err == nil
}

// GetAdminByUserID gets admin by user ID
func (s *AdminService) GetAdminByUserID(ctx context.Context, userID uint) (*models.AdminUser, error) {
	return s.repo.GetAdminByUserID(ctx, userID)
}

// PromoteUserToAdmin promotes a user to admin. promotedByAdminID is zero when
// the promotion comes from the command line.
func (s *AdminService) PromoteUserToAdmin(ctx context.Context, userID uint, role string, promotedByAdminID uint) (*models.AdminUser, error) {
	if role != models.RoleSuperAdmin && role != models.RoleEditor {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}

	if _, err := s.repo.GetAdminByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: user is already an admin", ErrValidation)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	adminUser := models.AdminUser{
		UserID: userID,
		Role:   role,
		Permissions: models.JSONB{
			"manage_proposals": true,
			"manage_credits":   role == models.RoleSuperAdmin,
		},
	}
	if err := s.repo.CreateAdminUser(ctx, &adminUser); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	s.LogAdminAction(ctx, promotedByAdminID, ActionPromoteUser, "USER", &userID, map[string]interface{}{
		"role": role,
	})

	logger.WithFields(logger.Fields{"user_id": userID, "role": role}).Info("User promoted to admin")
	return &adminUser, nil
}

// LogAdminAction writes an audit entry. Failures are logged, not returned.
// A zero adminID (command line, background job) writes nothing.
func (s *AdminService) LogAdminAction(ctx context.Context, adminID uint, action string, resourceType string,
	resourceID *uint, details map[string]interface{}) {

	if adminID == 0 {
		return
	}

	adminLog := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONB(details),
	}

	if err := s.repo.CreateAdminLog(ctx, &adminLog); err != nil {
		logger.WithError(err).WithField("action", action).Error("Failed to write admin log")
	}
}

// GetAdminLogs returns admin activity logs
func (s *AdminService) GetAdminLogs(ctx context.Context, limit int, offset int) ([]models.AdminLog, int64, error) {
	return s.repo.ListAdminLogs(ctx, limit, offset)
}
