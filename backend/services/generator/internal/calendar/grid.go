// Package calendar builds the date × time-of-day grid a generator run iterates over.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout formats grid dates.
const DateLayout = "2006-01-02"

const minutesPerHour = 60

// Grid is the cross product of Dates and Times, iterated day-major.
type Grid struct {
	Dates []string
	Times []string
}

// NewGrid returns days consecutive dates starting at firstDay and the time labels of one day
// split into intervalMinutes slots over hours hours, starting at 00:00.
func NewGrid(firstDay time.Time, days, hours, intervalMinutes int) (Grid, error) {
	if days < 0 {
		return Grid{}, errors.New("calendar: days must not be negative")
	}
	if hours <= 0 || hours > 24 {
		return Grid{}, fmt.Errorf("calendar: hours must be in 1..24, got %d", hours)
	}
	if intervalMinutes <= 0 || (hours*minutesPerHour)%intervalMinutes != 0 {
		return Grid{}, fmt.Errorf("calendar: interval of %d minutes does not divide %d hours", intervalMinutes, hours)
	}

	start := time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]string, days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}

	slots := hours * minutesPerHour / intervalMinutes
	times := make([]string, slots)
	for i := range times {
		m := i * intervalMinutes
		times[i] = fmt.Sprintf("%02d:%02d", m/minutesPerHour, m%minutesPerHour)
	}

	return Grid{Dates: dates, Times: times}, nil
}

// Slots is the number of time labels per day.
func (g Grid) Slots() int {
	return len(g.Times)
}

// Size is the number of cells.
func (g Grid) Size() int {
	return len(g.Dates) * len(g.Times)
}

// ParseDate parses a YYYY-MM-DD day; single-digit month and day are accepted.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{DateLayout, "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("calendar: invalid date %q", s)
}
