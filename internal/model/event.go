package model

import (
	"time"

	"gorm.io/datatypes"
)

// Тип события аудита.
type EventType string

const (
	EventTypeConsultationAccepted EventType = "consultation_accepted"
)

// events — события аудита
type Event struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	UserID         *int64 `gorm:"index"`
	ConsultationID *int64 `gorm:"index"`

	Details datatypes.JSON
}
