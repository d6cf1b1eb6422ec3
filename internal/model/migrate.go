package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра консультаций.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ConsultationReq{},
		&Consultation{},
		&AwaitingPayment{},
		&ConsultationSlotClaim{},
		&MaintenanceWindow{},
		&Event{},
	)
}
