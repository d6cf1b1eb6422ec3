package model

import "time"

// consultation_reqs — заявка пользователя с тремя кандидатами времени,
// ожидающая подтверждения консультантом.
type ConsultationReq struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	UserID       int64 `gorm:"not null;index"`
	ConsultantID int64 `gorm:"not null;index"`

	FirstCandidateAt  time.Time `gorm:"not null"`
	SecondCandidateAt time.Time `gorm:"not null"`
	ThirdCandidateAt  time.Time `gorm:"not null"`
	// Самый поздний из трёх кандидатов, хранится отдельно для фильтрации просроченных заявок.
	LatestCandidateAt time.Time `gorm:"not null;index"`

	FeePerHourInYen int32 `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}
