package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/consultation-platform/internal/db"
	"github.com/Leganyst/consultation-platform/internal/model"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
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
	return gdb
}

func mustCreate(t *testing.T, gdb *gorm.DB, value any) {
	t.Helper()
	if err := gdb.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func seedRequest(t *testing.T, gdb *gorm.DB, userID, consultantID int64, first time.Time) model.ConsultationReq {
	t.Helper()
	req := model.ConsultationReq{
		UserID:            userID,
		ConsultantID:      consultantID,
		FirstCandidateAt:  first,
		SecondCandidateAt: first.Add(24 * time.Hour),
		ThirdCandidateAt:  first.Add(48 * time.Hour),
		LatestCandidateAt: first.Add(48 * time.Hour),
		FeePerHourInYen:   3000,
	}
	mustCreate(t, gdb, &req)
	return req
}

func seedConsultation(t *testing.T, gdb *gorm.DB, userID, consultantID int64, meetingAt time.Time) model.Consultation {
	t.Helper()
	c := model.Consultation{
		UserID:       userID,
		ConsultantID: consultantID,
		MeetingAt:    meetingAt,
		RoomName:     uuid.NewString(),
	}
	mustCreate(t, gdb, &c)
	return c
}

func countRows(t *testing.T, gdb *gorm.DB, value any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", value, err)
	}
	return n
}
