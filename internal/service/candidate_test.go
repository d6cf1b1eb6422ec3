package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Leganyst/consultation-platform/internal/model"
)

func TestSelectCandidate(t *testing.T) {
	req := &model.ConsultationReq{
		FirstCandidateAt:  time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		SecondCandidateAt: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
		ThirdCandidateAt:  time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		picked int32
		want   time.Time
	}{
		{1, req.FirstCandidateAt},
		{2, req.SecondCandidateAt},
		{3, req.ThirdCandidateAt},
	}
	for _, tc := range cases {
		got, err := SelectCandidate(req, tc.picked)
		if err != nil {
			t.Fatalf("picked=%d: unexpected error: %v", tc.picked, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("picked=%d: expected %v, got %v", tc.picked, tc.want, got)
		}
	}

	for _, picked := range []int32{0, 4, -1} {
		if _, err := SelectCandidate(req, picked); !errors.Is(err, ErrUnknownCandidate) {
			t.Fatalf("picked=%d: expected ErrUnknownCandidate, got %v", picked, err)
		}
	}
}
