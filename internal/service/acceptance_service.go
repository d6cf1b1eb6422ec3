package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/consultation-platform/internal/calendar"
	"github.com/Leganyst/consultation-platform/internal/config"
	"github.com/Leganyst/consultation-platform/internal/model"
	"github.com/Leganyst/consultation-platform/internal/notification"
	"github.com/Leganyst/consultation-platform/internal/repository"
)

const defaultNotifyTimeout = 30 * time.Second

// То, что присылает консультант.
type AcceptRequest struct {
	ConsultationReqID int64 `json:"consultation_req_id"`
	PickedCandidate   int32 `json:"picked_candidate"`
	UserChecked       bool  `json:"user_checked"`
}

// AcceptInput: запрос плюс данные, которые проставляет сервер.
type AcceptInput struct {
	ConsultantID    int64
	ConsultantEmail string
	RoomName        string
	CurrentTime     time.Time
	Request         AcceptRequest
}

// EventPublisher публикует событие после коммита. Необязателен.
type EventPublisher interface {
	PublishConsultationAccepted(ctx context.Context, a *model.AcceptedConsultation) error
}

type AcceptanceService struct {
	cfg              config.AcceptanceConfig
	reqRepo          repository.ConsultationReqRepository
	userRepo         repository.UserRepository
	consultationRepo repository.ConsultationRepository
	maintenanceRepo  repository.MaintenanceRepository
	bookingTx        repository.ConsultationBookingTx
	mailer           notification.Mailer
	composer         *notification.Composer
	publisher        EventPublisher
	validate         *validator.Validate
	log              *zap.Logger
}

func NewAcceptanceService(
	cfg config.AcceptanceConfig,
	reqRepo repository.ConsultationReqRepository,
	userRepo repository.UserRepository,
	consultationRepo repository.ConsultationRepository,
	maintenanceRepo repository.MaintenanceRepository,
	bookingTx repository.ConsultationBookingTx,
	mailer notification.Mailer,
	composer *notification.Composer,
	log *zap.Logger,
) *AcceptanceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AcceptanceService{
		cfg:              cfg,
		reqRepo:          reqRepo,
		userRepo:         userRepo,
		consultationRepo: consultationRepo,
		maintenanceRepo:  maintenanceRepo,
		bookingTx:        bookingTx,
		mailer:           mailer,
		composer:         composer,
		validate:         validator.New(),
		log:              log.Named("acceptance"),
	}
}

// WithEventPublisher подключает публикацию consultation.accepted.
func (s *AcceptanceService) WithEventPublisher(p EventPublisher) *AcceptanceService {
	s.publisher = p
	return s
}

// Accept подтверждает заявку на консультацию.
// Возвращает nil или *AcceptanceError; первая же проверка, которая не прошла, завершает вызов.
func (s *AcceptanceService) Accept(ctx context.Context, in AcceptInput) error {
	log := s.log.With(
		zap.Int64("consultant_id", in.ConsultantID),
		zap.Int64("consultation_req_id", in.Request.ConsultationReqID),
	)

	accepted, err := s.accept(ctx, in)
	if err != nil {
		var accErr *AcceptanceError
		if errors.As(err, &accErr) && !accErr.IsInternal() {
			log.Info("consultation acceptance rejected", zap.String("code", string(accErr.Code)))
			return accErr
		}
		log.Error("consultation acceptance failed", zap.Error(err))
		if accErr == nil {
			accErr = newInternal(err)
		}
		return accErr
	}

	log.Info("consultation accepted",
		zap.Int64("consultation_id", accepted.ConsultationID),
		zap.Time("meeting_at", accepted.MeetingAt),
	)

	// Бронь уже зафиксирована: отмена вызова не должна обрывать уведомления,
	// но и ждать зависший SMTP дольше NotifyTimeout нельзя.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout())
	defer cancel()
	s.afterCommit(notifyCtx, in.ConsultantEmail, accepted, log)
	return nil
}

func (s *AcceptanceService) accept(ctx context.Context, in AcceptInput) (*model.AcceptedConsultation, error) {
	if _, err := uuid.Parse(in.RoomName); err != nil {
		return nil, newInternal(fmt.Errorf("room name %q is not a uuid: %w", in.RoomName, err))
	}
	if err := s.validateRequest(in.Request); err != nil {
		return nil, err
	}

	req, err := s.reqRepo.FindByID(ctx, in.Request.ConsultationReqID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newRejection(CodeNoConsultationReqFound)
		}
		return nil, newInternal(err)
	}
	// Чужая заявка выглядит так же, как несуществующая.
	if req.ConsultantID != in.ConsultantID {
		return nil, newRejection(CodeNoConsultationReqFound)
	}

	criteria := in.CurrentTime.Add(s.cfg.MinLead)
	if !req.LatestCandidateAt.After(criteria) {
		return nil, newRejection(CodeNoConsultationReqFound)
	}

	// Заявка самому себе: второй участник отсутствует.
	if req.UserID == req.ConsultantID {
		return nil, newRejection(CodeTheOtherPersonAccountIsNotAvailable)
	}

	user, err := resolveAvailableParty(ctx, s.userRepo, req.UserID)
	if err != nil {
		if errors.Is(err, ErrPartyUnavailable) {
			return nil, newRejection(CodeTheOtherPersonAccountIsNotAvailable)
		}
		return nil, newInternal(err)
	}

	meetingAt, err := SelectCandidate(req, in.Request.PickedCandidate)
	if err != nil {
		return nil, newInternal(err)
	}
	if !meetingAt.After(criteria) {
		return nil, newRejection(CodeNoEnoughSpareTimeBeforeMeeting)
	}

	if err := s.checkConflicts(ctx, req.ConsultantID, req.UserID, meetingAt); err != nil {
		return nil, err
	}
	if err := s.checkMaintenance(ctx, meetingAt, in.CurrentTime); err != nil {
		return nil, err
	}

	accepted, err := s.bookingTx.Accept(ctx, repository.AcceptParams{
		ConsultationReqID: req.ID,
		MeetingAt:         meetingAt,
		RoomName:          in.RoomName,
		CurrentTime:       in.CurrentTime,
		FeePerHourInYen:   req.FeePerHourInYen,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConsultantSlotTaken):
			return nil, newRejection(CodeConsultantHasSameMeetingDateTime)
		case errors.Is(err, repository.ErrUserSlotTaken):
			return nil, newRejection(CodeUserHasSameMeetingDateTime)
		default:
			return nil, newInternal(fmt.Errorf("booking transaction: %w", err))
		}
	}
	accepted.UserEmail = user.Email

	return accepted, nil
}

func (s *AcceptanceService) validateRequest(r AcceptRequest) error {
	if err := s.validate.Var(r.PickedCandidate, "oneof=1 2 3"); err != nil {
		return newRejection(CodeInvalidCandidate)
	}
	if err := s.validate.Var(r.UserChecked, "eq=true"); err != nil {
		return newRejection(CodeUserDoesNotCheckConfirmationItems)
	}
	if err := s.validate.Var(r.ConsultationReqID, "gt=0"); err != nil {
		return newRejection(CodeNonPositiveConsultationReqID)
	}
	return nil
}

// checkConflicts: каждый участник в обеих ролях, итого четыре подсчёта.
func (s *AcceptanceService) checkConflicts(ctx context.Context, consultantID, userID int64, meetingAt time.Time) error {
	checks := []struct {
		count func(context.Context, int64, time.Time) (int64, error)
		party int64
		code  ErrorCode
	}{
		{s.consultationRepo.CountByUserAndMeetingAt, consultantID, CodeConsultantHasSameMeetingDateTime},
		{s.consultationRepo.CountByConsultantAndMeetingAt, consultantID, CodeConsultantHasSameMeetingDateTime},
		{s.consultationRepo.CountByUserAndMeetingAt, userID, CodeUserHasSameMeetingDateTime},
		{s.consultationRepo.CountByConsultantAndMeetingAt, userID, CodeUserHasSameMeetingDateTime},
	}

	for _, c := range checks {
		n, err := c.count(ctx, c.party, meetingAt)
		if err != nil {
			return newInternal(err)
		}
		if n != 0 {
			return newRejection(c.code)
		}
	}
	return nil
}

func (s *AcceptanceService) checkMaintenance(ctx context.Context, meetingAt, now time.Time) error {
	meeting, err := calendar.MeetingRange(meetingAt, s.cfg.MeetingDuration)
	if err != nil {
		return newInternal(err)
	}

	windows, err := s.maintenanceRepo.ListUpcoming(ctx, now)
	if err != nil {
		return newInternal(err)
	}

	ranges := make([]calendar.TimeRange, 0, len(windows))
	for _, w := range windows {
		ranges = append(ranges, calendar.TimeRange{Start: w.StartAt, End: w.EndAt})
	}
	if overlap, conflicts := calendar.HasOverlap(meeting, ranges); overlap {
		s.log.Debug("meeting overlaps maintenance",
			zap.Time("meeting_at", meetingAt),
			zap.Time("maintenance_start", conflicts[0].Start),
			zap.Time("maintenance_end", conflicts[0].End),
		)
		return newRejection(CodeMeetingDateTimeOverlapsMaintenance)
	}
	return nil
}

func (s *AcceptanceService) notifyTimeout() time.Duration {
	if s.cfg.NotifyTimeout <= 0 {
		return defaultNotifyTimeout
	}
	return s.cfg.NotifyTimeout
}

// afterCommit: письма обоим участникам и событие. Ошибки только логируются.
func (s *AcceptanceService) afterCommit(ctx context.Context, consultantEmail string, a *model.AcceptedConsultation, log *zap.Logger) {
	log = log.With(zap.Int64("consultation_id", a.ConsultationID))

	if s.mailer != nil && s.composer != nil {
		s.notify(ctx, log, "consultant", consultantEmail, s.composer.ConsultantAccepted(a))
		s.notify(ctx, log, "user", a.UserEmail, s.composer.UserAccepted(a))
	}

	if s.publisher != nil {
		if err := s.publisher.PublishConsultationAccepted(ctx, a); err != nil {
			log.Warn("failed to publish consultation accepted event", zap.Error(err))
		}
	}
}

func (s *AcceptanceService) notify(ctx context.Context, log *zap.Logger, role, to string, msg notification.Message) {
	if err := s.mailer.Send(ctx, to, msg.Subject, msg.Body); err != nil {
		log.Warn("failed to send acceptance notification",
			zap.String("recipient_role", role),
			zap.Error(err),
		)
	}
}
