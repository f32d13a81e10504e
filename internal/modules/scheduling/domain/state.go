package domain

import (
	"math"
	"time"

	apperrors "srs/internal/platform/errors"
)

const DateLayout = "2006-01-02"

// ReviewState is the persisted schedule of one item. A never reviewed item has
// no ReviewState at all.
type ReviewState struct {
	Ease         int
	Interval     int
	Due          time.Time
	Repetitions  int
	Lapses       int
	LastReviewed time.Time
}

// Validate checks a decoded record before it is handed to the algorithm.
func (s ReviewState) Validate(itemID string) error {
	switch {
	case s.Ease < 1:
		return apperrors.InvalidState(itemID, "ease must be positive")
	case s.Interval < 1:
		return apperrors.InvalidState(itemID, "interval must be at least one day")
	case s.Due.IsZero():
		return apperrors.InvalidState(itemID, "due date is missing")
	case s.Repetitions < 0 || s.Lapses < 0:
		return apperrors.InvalidState(itemID, "counters must not be negative")
	case !s.LastReviewed.IsZero() && Day(s.Due).Before(Day(s.LastReviewed)):
		return apperrors.InvalidState(itemID, "due date precedes last review")
	}
	return nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
