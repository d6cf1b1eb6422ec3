package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/consultation-platform/internal/model"
)

// ConsultationRepository: проверка конфликтов по точному времени начала встречи.
// Встречи фиксированной длительности, поэтому сравнение на равенство, а не на пересечение.
type ConsultationRepository interface {
	// Сколько консультаций у аккаунта в роли пользователя на это время.
	CountByUserAndMeetingAt(ctx context.Context, userID int64, meetingAt time.Time) (int64, error)
	// Сколько консультаций у аккаунта в роли консультанта на это время.
	CountByConsultantAndMeetingAt(ctx context.Context, consultantID int64, meetingAt time.Time) (int64, error)
}

// Реализация на GORM.
type GormConsultationRepository struct {
	db *gorm.DB
}

func NewGormConsultationRepository(db *gorm.DB) *GormConsultationRepository {
	return &GormConsultationRepository{db: db}
}

func (r *GormConsultationRepository) CountByUserAndMeetingAt(ctx context.Context, userID int64, meetingAt time.Time) (int64, error) {
	return r.countBy(ctx, "user_id", userID, meetingAt)
}

func (r *GormConsultationRepository) CountByConsultantAndMeetingAt(ctx context.Context, consultantID int64, meetingAt time.Time) (int64, error) {
	return r.countBy(ctx, "consultant_id", consultantID, meetingAt)
}

func (r *GormConsultationRepository) countBy(ctx context.Context, column string, partyID int64, meetingAt time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Consultation{}).
		Where(column+" = ?", partyID).
		Where("meeting_at = ?", meetingAt.UTC()).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count consultations by %s: %w", column, err)
	}
	return total, nil
}
