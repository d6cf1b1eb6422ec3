package model

import "time"

// consultations — подтверждённая встреча. Время встречи после создания не меняется.
type Consultation struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	UserID       int64     `gorm:"not null;index"`
	ConsultantID int64     `gorm:"not null;index"`
	MeetingAt    time.Time `gorm:"not null;index"`

	// UUID комнаты видеовстречи, генерируется сервером.
	RoomName string `gorm:"type:varchar(64);not null;uniqueIndex"`

	UserEnteredAt       *time.Time
	ConsultantEnteredAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
}

// awaiting_payments — счёт, который пользователь должен оплатить до встречи.
// Создаётся атомарно вместе с Consultation, ключ — id консультации.
type AwaitingPayment struct {
	ConsultationID int64 `gorm:"primaryKey;autoIncrement:false"`

	UserID          int64     `gorm:"not null;index"`
	ConsultantID    int64     `gorm:"not null;index"`
	MeetingAt       time.Time `gorm:"not null"`
	FeePerHourInYen int32     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`

	Consultation *Consultation `gorm:"foreignKey:ConsultationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// AcceptedConsultation — результат транзакции подтверждения, нужен для уведомлений.
type AcceptedConsultation struct {
	ConsultationID  int64
	UserID          int64
	ConsultantID    int64
	FeePerHourInYen int32
	MeetingAt       time.Time
	RoomName        string

	// Адрес пользователя; транзакция его не знает, заполняет сервис.
	UserEmail string
}
