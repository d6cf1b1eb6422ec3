package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/Leganyst/consultation-platform/internal/config"
	"github.com/Leganyst/consultation-platform/internal/db"
	"github.com/Leganyst/consultation-platform/internal/model"
	"github.com/Leganyst/consultation-platform/internal/notification"
	"github.com/Leganyst/consultation-platform/internal/repository"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

var testAcceptanceConfig = config.AcceptanceConfig{
	MinLead:         6 * time.Hour,
	MeetingDuration: time.Hour,
	NotifyTimeout:   2 * time.Second,
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return m.err
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*model.AcceptedConsultation
	err       error
}

func (p *recordingPublisher) PublishConsultationAccepted(_ context.Context, a *model.AcceptedConsultation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, a)
	return p.err
}

type fixture struct {
	db         *gorm.DB
	svc        *AcceptanceService
	mailer     *recordingMailer
	logs       *observer.ObservedLogs
	consultant model.User
	user       model.User
}

// newFixture поднимает сервис поверх sqlite с настоящими репозиториями.
// consultationRepo != nil подменяет проверку конфликтов.
func newFixture(t *testing.T, consultationRepo repository.ConsultationRepository) *fixture {
	t.Helper()

	gdb, err := db.NewSQLiteDB(":memory:", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	core, logs := observer.New(zapcore.DebugLevel)
	mailer := &recordingMailer{}

	if consultationRepo == nil {
		consultationRepo = repository.NewGormConsultationRepository(gdb)
	}

	svc := NewAcceptanceService(
		testAcceptanceConfig,
		repository.NewGormConsultationReqRepository(gdb),
		repository.NewGormUserRepository(gdb),
		consultationRepo,
		repository.NewGormMaintenanceRepository(gdb),
		repository.NewGormConsultationBookingTx(gdb, sql.LevelDefault),
		mailer,
		notification.NewComposer(config.NotificationConfig{BankName: "Test Bank", AccountNumber: "1234567"}, time.UTC),
		zap.New(core),
	)

	f := &fixture{db: gdb, svc: svc, mailer: mailer, logs: logs}
	f.consultant = f.createUser(t, "consultant@example.com")
	f.user = f.createUser(t, "user@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) model.User {
	t.Helper()
	u := model.User{Email: email}
	f.mustCreate(t, &u)
	return u
}

func (f *fixture) mustCreate(t *testing.T, value any) {
	t.Helper()
	if err := f.db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

// createRequest: три кандидата с шагом в сутки начиная с first.
func (f *fixture) createRequest(t *testing.T, first time.Time) model.ConsultationReq {
	t.Helper()
	return f.createRequestWith(t, f.user.ID, first, first.Add(24*time.Hour), first.Add(48*time.Hour))
}

func (f *fixture) createRequestWith(t *testing.T, userID int64, first, second, third time.Time) model.ConsultationReq {
	t.Helper()
	latest := first
	for _, c := range []time.Time{second, third} {
		if c.After(latest) {
			latest = c
		}
	}
	req := model.ConsultationReq{
		UserID:            userID,
		ConsultantID:      f.consultant.ID,
		FirstCandidateAt:  first,
		SecondCandidateAt: second,
		ThirdCandidateAt:  third,
		LatestCandidateAt: latest,
		FeePerHourInYen:   5000,
	}
	f.mustCreate(t, &req)
	return req
}

func (f *fixture) input(reqID int64, picked int32) AcceptInput {
	return AcceptInput{
		ConsultantID:    f.consultant.ID,
		ConsultantEmail: f.consultant.Email,
		RoomName:        uuid.NewString(),
		CurrentTime:     testNow,
		Request: AcceptRequest{
			ConsultationReqID: reqID,
			PickedCandidate:   picked,
			UserChecked:       true,
		},
	}
}

func (f *fixture) count(t *testing.T, value any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", value, err)
	}
	return n
}

func assertCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", want)
	}
	var accErr *AcceptanceError
	if !errors.As(err, &accErr) {
		t.Fatalf("expected *AcceptanceError, got %T: %v", err, err)
	}
	if accErr.Code != want {
		t.Fatalf("expected %s, got %s (%v)", want, accErr.Code, err)
	}
}

// zeroConflicts делает вид, что конфликтов нет.
type zeroConflicts struct{}

func (zeroConflicts) CountByUserAndMeetingAt(context.Context, int64, time.Time) (int64, error) {
	return 0, nil
}

func (zeroConflicts) CountByConsultantAndMeetingAt(context.Context, int64, time.Time) (int64, error) {
	return 0, nil
}
