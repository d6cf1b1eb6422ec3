package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/consultation-platform/internal/model"
)

// Параметры транзакции подтверждения.
type AcceptParams struct {
	ConsultationReqID int64
	MeetingAt         time.Time
	RoomName          string
	CurrentTime       time.Time
	FeePerHourInYen   int32
}

// ConsultationBookingTx превращает заявку в консультацию и счёт одной транзакцией.
type ConsultationBookingTx interface {
	Accept(ctx context.Context, p AcceptParams) (*model.AcceptedConsultation, error)
}

type GormConsultationBookingTx struct {
	db        *gorm.DB
	isolation sql.IsolationLevel
}

// NewGormConsultationBookingTx; при sql.LevelDefault уровень выбирает драйвер.
func NewGormConsultationBookingTx(db *gorm.DB, isolation sql.IsolationLevel) *GormConsultationBookingTx {
	return &GormConsultationBookingTx{db: db, isolation: isolation}
}

// Accept:
//   - берёт строку заявки под эксклюзивную блокировку (SELECT ... FOR UPDATE);
//   - создаёт консультацию и занимает слот за обоими участниками;
//   - создаёт счёт на оплату и событие аудита;
//   - удаляет заявку.
//
// Любая ошибка откатывает всё целиком.
func (t *GormConsultationBookingTx) Accept(ctx context.Context, p AcceptParams) (*model.AcceptedConsultation, error) {
	var accepted *model.AcceptedConsultation

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.ConsultationReq
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", p.ConsultationReqID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lock consultation req %d: %w", p.ConsultationReqID, ErrNotFound)
			}
			return fmt.Errorf("lock consultation req %d: %w", p.ConsultationReqID, err)
		}

		meetingAt := p.MeetingAt.UTC()
		consultation := model.Consultation{
			UserID:       req.UserID,
			ConsultantID: req.ConsultantID,
			MeetingAt:    meetingAt,
			RoomName:     p.RoomName,
		}
		if err := tx.Create(&consultation).Error; err != nil {
			return fmt.Errorf("create consultation: %w", err)
		}

		if err := claimSlot(tx, consultation, consultation.ConsultantID, model.PartyRoleConsultant); err != nil {
			return err
		}
		if err := claimSlot(tx, consultation, consultation.UserID, model.PartyRoleUser); err != nil {
			return err
		}

		payment := model.AwaitingPayment{
			ConsultationID:  consultation.ID,
			UserID:          consultation.UserID,
			ConsultantID:    consultation.ConsultantID,
			MeetingAt:       meetingAt,
			FeePerHourInYen: p.FeePerHourInYen,
			CreatedAt:       p.CurrentTime.UTC(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create awaiting payment: %w", err)
		}

		if err := appendAcceptedEvent(tx, req, consultation, p); err != nil {
			return err
		}

		res := tx.Delete(&model.ConsultationReq{}, "id = ?", req.ID)
		if res.Error != nil {
			return fmt.Errorf("delete consultation req %d: %w", req.ID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("delete consultation req %d: %d rows affected", req.ID, res.RowsAffected)
		}

		accepted = &model.AcceptedConsultation{
			ConsultationID:  consultation.ID,
			UserID:          consultation.UserID,
			ConsultantID:    consultation.ConsultantID,
			FeePerHourInYen: p.FeePerHourInYen,
			MeetingAt:       meetingAt,
			RoomName:        consultation.RoomName,
		}
		return nil
	}, t.txOptions()...)
	if err != nil {
		return nil, err
	}

	return accepted, nil
}

func (t *GormConsultationBookingTx) txOptions() []*sql.TxOptions {
	if t.isolation == sql.LevelDefault {
		return nil
	}
	return []*sql.TxOptions{{Isolation: t.isolation}}
}

// claimSlot вставляет строку в consultation_slot_claims.
// Нарушение уникального индекса (party_id, meeting_at) означает, что участник уже занят.
func claimSlot(tx *gorm.DB, c model.Consultation, partyID int64, role model.PartyRole) error {
	claim := model.ConsultationSlotClaim{
		PartyID:        partyID,
		MeetingAt:      c.MeetingAt,
		Role:           role,
		ConsultationID: c.ID,
	}
	err := tx.Create(&claim).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if role == model.PartyRoleConsultant {
			return ErrConsultantSlotTaken
		}
		return ErrUserSlotTaken
	}
	return fmt.Errorf("claim %s slot: %w", role, err)
}

func appendAcceptedEvent(tx *gorm.DB, req model.ConsultationReq, c model.Consultation, p AcceptParams) error {
	details, err := json.Marshal(map[string]any{
		"consultation_req_id": req.ID,
		"consultant_id":       c.ConsultantID,
		"meeting_at":          c.MeetingAt,
		"fee_per_hour_in_yen": p.FeePerHourInYen,
		"room_name":           c.RoomName,
	})
	if err != nil {
		return fmt.Errorf("marshal event details: %w", err)
	}

	userID := c.UserID
	consultationID := c.ID
	ev := model.Event{
		EventType:      model.EventTypeConsultationAccepted,
		CreatedAt:      p.CurrentTime.UTC(),
		UserID:         &userID,
		ConsultationID: &consultationID,
		Details:        datatypes.JSON(details),
	}
	if err := tx.Create(&ev).Error; err != nil {
		return fmt.Errorf("create accepted event: %w", err)
	}
	return nil
}
