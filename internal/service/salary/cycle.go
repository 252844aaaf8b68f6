// Package salary holds the pure salary-cycle, payment-ledger and aggregate
// calculations. Nothing here reads the clock: callers pass "today" or "now".
package salary

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidCycle = errors.New("cycle end date is before start date")
)

// Cycle is the pay cycle window that applies on a given day.
type Cycle struct {
	Start    time.Time
	End      time.Time
	IsActive bool
}

// Progress describes how far "today" is into the current cycle.
type Progress struct {
	CycleStart      time.Time
	CycleEnd        time.Time
	TotalDays       int
	DaysRemaining   int
	ProgressPercent int
	IsActive        bool
}

// ParseDate parses a calendar date and returns it at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatISODate renders a date as YYYY-MM-DD.
func FormatISODate(t time.Time) string {
	return t.Format(DateLayout)
}

// civilDate drops the clock part of t, keeping the calendar day as seen in t's location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole days. Both must be civil dates.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func parseWindow(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s > %s", ErrInvalidCycle, startDate, endDate)
	}
	return start, end, nil
}

// CurrentCycle returns the pay cycle window containing today.
//
// Once the anchor window [startDate, endDate] has elapsed the cycle repeats with the
// same inclusive length, each new window starting the day after the previous end.
// The window is found with integer division on elapsed days, so long-dormant
// records cost the same as fresh ones.
func CurrentCycle(startDate, endDate string, today time.Time) (Cycle, error) {
	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return Cycle{}, err
	}
	return currentCycle(start, end, civilDate(today)), nil
}

func currentCycle(start, end, today time.Time) Cycle {
	if today.Before(start) {
		return Cycle{Start: start, End: end, IsActive: false}
	}
	if !today.After(end) {
		return Cycle{Start: start, End: end, IsActive: true}
	}

	length := daysBetween(start, end) + 1
	elapsed := daysBetween(start, today)
	k := elapsed / length

	cycleStart := start.AddDate(0, 0, k*length)
	cycleEnd := cycleStart.AddDate(0, 0, length-1)
	return Cycle{Start: cycleStart, End: cycleEnd, IsActive: true}
}

// DaysUntilCycleEnd is the signed number of days from today to the end of the current cycle.
func DaysUntilCycleEnd(startDate, endDate string, today time.Time) (int, error) {
	cycle, err := CurrentCycle(startDate, endDate, today)
	if err != nil {
		return 0, err
	}
	return daysBetween(civilDate(today), cycle.End), nil
}

// DaysUntilCycleStart is the number of days from today until the current cycle starts.
// It is only positive for cycles that have not started yet.
func DaysUntilCycleStart(startDate, endDate string, today time.Time) (int, error) {
	cycle, err := CurrentCycle(startDate, endDate, today)
	if err != nil {
		return 0, err
	}
	return daysBetween(civilDate(today), cycle.Start), nil
}

// CycleStatusText maps a day count to the reminder phrase shown next to an employee.
// For a cycle that has not started, daysLeft is the number of days until it starts.
func CycleStatusText(daysLeft int, isActive bool) string {
	if !isActive {
		return fmt.Sprintf("Salary cycle starts in %d days", daysLeft)
	}

	switch {
	case daysLeft == 0:
		return "Salary day is today!"
	case daysLeft == 1:
		return "Salary day is tomorrow!"
	case daysLeft < 0:
		return fmt.Sprintf("Salary day was %d days ago", -daysLeft)
	default:
		return fmt.Sprintf("%d days until salary", daysLeft)
	}
}

// CycleProgress reports elapsed percentage and remaining days of the current cycle.
func CycleProgress(startDate, endDate string, today time.Time) (Progress, error) {
	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return Progress{}, err
	}
	day := civilDate(today)
	cycle := currentCycle(start, end, day)

	totalDays := daysBetween(cycle.Start, cycle.End) + 1
	elapsed := daysBetween(cycle.Start, day)
	percent := float64(elapsed) / float64(totalDays) * 100
	percent = math.Min(math.Max(percent, 0), 100)

	remaining := daysBetween(day, cycle.End)
	if remaining < 0 {
		remaining = 0
	}

	return Progress{
		CycleStart:      cycle.Start,
		CycleEnd:        cycle.End,
		TotalDays:       totalDays,
		DaysRemaining:   remaining,
		ProgressPercent: int(math.Round(percent)),
		IsActive:        cycle.IsActive,
	}, nil
}

// Info bundles everything the API shows about an employee's cycle.
type Info struct {
	Progress
	DaysUntilSalary int
	StatusText      string
}

func CycleInfo(startDate, endDate string, today time.Time) (Info, error) {
	progress, err := CycleProgress(startDate, endDate, today)
	if err != nil {
		return Info{}, err
	}

	day := civilDate(today)
	daysLeft := daysBetween(day, progress.CycleEnd)
	textDays := daysLeft
	if !progress.IsActive {
		textDays = daysBetween(day, progress.CycleStart)
	}

	return Info{
		Progress:        progress,
		DaysUntilSalary: daysLeft,
		StatusText:      CycleStatusText(textDays, progress.IsActive),
	}, nil
}
