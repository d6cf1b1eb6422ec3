package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/consultation-platform/internal/model"
)

type MaintenanceRepository interface {
	// ListUpcoming возвращает окна обслуживания, которые ещё не закончились к моменту now.
	ListUpcoming(ctx context.Context, now time.Time) ([]model.MaintenanceWindow, error)
}

type GormMaintenanceRepository struct {
	db *gorm.DB
}

func NewGormMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

func (r *GormMaintenanceRepository) ListUpcoming(ctx context.Context, now time.Time) ([]model.MaintenanceWindow, error) {
	var windows []model.MaintenanceWindow
	err := r.db.WithContext(ctx).
		Where("end_at >= ?", now.UTC()).
		Order("start_at ASC").
		Find(&windows).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming maintenance: %w", err)
	}
	return windows, nil
}
