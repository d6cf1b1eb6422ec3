package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Leganyst/consultation-platform/internal/model"
)

func TestGormConsultationRepository_CountByRole(t *testing.T) {
	gdb := newTestDB(t)
	meetingAt := baseTime.Add(72 * time.Hour)
	seedConsultation(t, gdb, 1, 2, meetingAt)
	seedConsultation(t, gdb, 1, 3, meetingAt.Add(time.Hour))

	repo := NewGormConsultationRepository(gdb)
	ctx := context.Background()

	cases := []struct {
		name  string
		count func(context.Context, int64, time.Time) (int64, error)
		party int64
		at    time.Time
		want  int64
	}{
		{"user at meeting", repo.CountByUserAndMeetingAt, 1, meetingAt, 1},
		{"consultant at meeting", repo.CountByConsultantAndMeetingAt, 2, meetingAt, 1},
		{"user as consultant", repo.CountByConsultantAndMeetingAt, 1, meetingAt, 0},
		{"consultant as user", repo.CountByUserAndMeetingAt, 2, meetingAt, 0},
		{"other start time", repo.CountByConsultantAndMeetingAt, 2, meetingAt.Add(30 * time.Minute), 0},
		{"second consultation", repo.CountByConsultantAndMeetingAt, 3, meetingAt.Add(time.Hour), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.count(ctx, tc.party, tc.at)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestGormMaintenanceRepository_ListUpcoming(t *testing.T) {
	gdb := newTestDB(t)
	now := baseTime

	mustCreate(t, gdb, &model.MaintenanceWindow{StartAt: now.Add(-3 * time.Hour), EndAt: now.Add(-time.Hour)})
	mustCreate(t, gdb, &model.MaintenanceWindow{StartAt: now.Add(48 * time.Hour), EndAt: now.Add(50 * time.Hour)})
	mustCreate(t, gdb, &model.MaintenanceWindow{StartAt: now.Add(-time.Hour), EndAt: now})
	mustCreate(t, gdb, &model.MaintenanceWindow{StartAt: now.Add(24 * time.Hour), EndAt: now.Add(25 * time.Hour)})

	windows, err := NewGormMaintenanceRepository(gdb).ListUpcoming(context.Background(), now)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	// Окно, которое заканчивается ровно сейчас, ещё считается.
	if !windows[0].EndAt.Equal(now) {
		t.Fatalf("expected window ending now first, got %+v", windows[0])
	}
	if !windows[1].StartAt.Before(windows[2].StartAt) {
		t.Fatalf("windows must be ordered by start: %+v", windows)
	}
}

func TestGormUserRepository_FindByID(t *testing.T) {
	gdb := newTestDB(t)
	u := model.User{Email: "user@example.com"}
	mustCreate(t, gdb, &u)

	repo := NewGormUserRepository(gdb)

	got, err := repo.FindByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.Email != "user@example.com" || got.IsDisabled() {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.FindByID(context.Background(), u.ID+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormConsultationReqRepository_FindByID(t *testing.T) {
	gdb := newTestDB(t)
	req := seedRequest(t, gdb, 1, 2, baseTime.Add(72*time.Hour))

	repo := NewGormConsultationReqRepository(gdb)

	got, err := repo.FindByID(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("find request: %v", err)
	}
	if got.ConsultantID != 2 || got.FeePerHourInYen != 3000 {
		t.Fatalf("unexpected request: %+v", got)
	}

	if _, err := repo.FindByID(context.Background(), req.ID+1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
