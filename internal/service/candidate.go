package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Leganyst/consultation-platform/internal/model"
)

var ErrUnknownCandidate = errors.New("unknown candidate")

// SelectCandidate возвращает время кандидата по его номеру (1..3).
func SelectCandidate(req *model.ConsultationReq, picked int32) (time.Time, error) {
	switch picked {
	case 1:
		return req.FirstCandidateAt, nil
	case 2:
		return req.SecondCandidateAt, nil
	case 3:
		return req.ThirdCandidateAt, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %d", ErrUnknownCandidate, picked)
	}
}
