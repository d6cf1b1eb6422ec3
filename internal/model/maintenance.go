package model

import "time"

// maintenance_windows — плановые работы, интервал [StartAt, EndAt).
// Ядро подтверждения только читает эту таблицу.
type MaintenanceWindow struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	StartAt time.Time `gorm:"not null"`
	EndAt   time.Time `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}
