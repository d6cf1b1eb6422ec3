package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Leganyst/consultation-platform/internal/model"
)

const (
	EventConsultationAccepted = "consultation.accepted"
	consultationAcceptedV1    = 1
)

// Envelope: общий конверт событий.
type Envelope[T any] struct {
	Event   string `json:"event"`
	Version int    `json:"version"`
	Data    T      `json:"data"`
}

type ConsultationAccepted struct {
	ConsultationID  int64     `json:"consultation_id"`
	UserID          int64     `json:"user_id"`
	ConsultantID    int64     `json:"consultant_id"`
	MeetingAt       time.Time `json:"meeting_at"`
	FeePerHourInYen int32     `json:"fee_per_hour_in_yen"`
	RoomName        string    `json:"room_name"`
}

func NewConsultationAccepted(a *model.AcceptedConsultation) Envelope[ConsultationAccepted] {
	return Envelope[ConsultationAccepted]{
		Event:   EventConsultationAccepted,
		Version: consultationAcceptedV1,
		Data: ConsultationAccepted{
			ConsultationID:  a.ConsultationID,
			UserID:          a.UserID,
			ConsultantID:    a.ConsultantID,
			MeetingAt:       a.MeetingAt.UTC(),
			FeePerHourInYen: a.FeePerHourInYen,
			RoomName:        a.RoomName,
		},
	}
}

func Unmarshal[T any](b []byte) (Envelope[T], error) {
	var env Envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("unmarshal event: %w", err)
	}
	return env, nil
}
