package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Leganyst/consultation-platform/internal/model"
)

type ConsultationReqRepository interface {
	// Найти заявку по ID. Нет строки: ErrNotFound.
	// Удаление выполняет только ConsultationBookingTx, под блокировкой строки.
	FindByID(ctx context.Context, id int64) (*model.ConsultationReq, error)
}

type GormConsultationReqRepository struct {
	db *gorm.DB
}

func NewGormConsultationReqRepository(db *gorm.DB) *GormConsultationReqRepository {
	return &GormConsultationReqRepository{db: db}
}

func (r *GormConsultationReqRepository) FindByID(ctx context.Context, id int64) (*model.ConsultationReq, error) {
	var req model.ConsultationReq
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find consultation req %d: %w", id, err)
	}
	return &req, nil
}
