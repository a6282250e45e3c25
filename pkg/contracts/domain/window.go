package domain

import (
	"errors"
	"time"
)

// ErrWindowReversed is returned when the first day comes after the last one.
var ErrWindowReversed = errors.New("start date is after end date")

// DateWindow is a range of calendar days: Start is inclusive, End is exclusive.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateWindow builds the window covering first..last inclusive.
func NewDateWindow(first, last time.Time) (DateWindow, error) {
	w := DateWindow{
		Start: truncateDay(first),
		End:   truncateDay(last).AddDate(0, 0, 1),
	}
	if w.Start.After(w.End) {
		return DateWindow{}, ErrWindowReversed
	}
	return w, nil
}

// Days lists every calendar day in [Start, End) in ascending order.
func (w DateWindow) Days() []time.Time {
	var days []time.Time
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// LastDay is the last day included in the window.
func (w DateWindow) LastDay() time.Time {
	return w.End.AddDate(0, 0, -1)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
