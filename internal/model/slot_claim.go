package model

import "time"

// Роль участника, занявшего слот.
type PartyRole string

const (
	PartyRoleUser       PartyRole = "user"
	PartyRoleConsultant PartyRole = "consultant"
)

// consultation_slot_claims — одна строка на участника подтверждённой консультации.
// Уникальный индекс (party_id, meeting_at) не зависит от роли, поэтому один и тот же
// аккаунт не может оказаться на двух встречах в одно время ни как пользователь, ни как консультант.
type ConsultationSlotClaim struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	PartyID   int64     `gorm:"not null;uniqueIndex:idx_slot_claims_party_meeting"`
	MeetingAt time.Time `gorm:"not null;uniqueIndex:idx_slot_claims_party_meeting"`
	Role      PartyRole `gorm:"type:varchar(16);not null"`

	ConsultationID int64 `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`

	Consultation *Consultation `gorm:"foreignKey:ConsultationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
