package calendar

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrMeetingDuration  = errors.New("meeting duration must be positive")
)

// TimeRange представляет временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал и делает простую валидацию.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// MeetingRange: интервал встречи фиксированной длительности, начинающейся в start.
func MeetingRange(start time.Time, duration time.Duration) (TimeRange, error) {
	if duration <= 0 {
		return TimeRange{}, ErrMeetingDuration
	}
	return NewTimeRange(start, start.Add(duration))
}

// Overlaps проверяет пересечение полуоткрытых интервалов:
// [a.Start, a.End) и [b.Start, b.End) пересекаются, если b.End > a.Start && a.End > b.Start.
// Касание концами пересечением не считается.
func Overlaps(a, b TimeRange) bool {
	return b.End.After(a.Start) && a.End.After(b.Start)
}

// HasOverlap проверяет, пересекается ли newRange с existing,
// и возвращает все пересекающиеся интервалы.
func HasOverlap(newRange TimeRange, existing []TimeRange) (bool, []TimeRange) {
	var conflicts []TimeRange

	for _, tr := range existing {
		if Overlaps(newRange, tr) {
			conflicts = append(conflicts, tr)
		}
	}

	return len(conflicts) > 0, conflicts
}
