package repository

import (
	"context"

	"trips-club/internal/models"
)

// GetAdminByUserID gets the admin record for a user
func (r *Repository) GetAdminByUserID(ctx context.Context, userID uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// CreateAdminUser grants admin rights
func (r *Repository) CreateAdminUser(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// CreateAdminLog records an admin action
func (r *Repository) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAdminLogs returns admin activity logs, newest first
func (r *Repository) ListAdminLogs(ctx context.Context, limit, offset int) ([]models.AdminLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AdminLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AdminLog
	err := r.db.WithContext(ctx).Preload("Admin").Preload("Admin.User").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, total, err
}
