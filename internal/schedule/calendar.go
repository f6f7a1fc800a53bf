// Package schedule holds the pure parts of the enrollment calendar engine:
// calendar arithmetic, template validation and the per-day assignment of
// template days. It performs no I/O; the calendar service drives it and
// persists the results.
package schedule

import (
	"time"

	"fitcourse/backend/internal/domain"
)

// MondayOf returns the Monday of the calendar week containing t, truncated
// to midnight UTC.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// time.Weekday counts Sunday as 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DateForDayIndex returns the calendar date of the 0-based day index,
// counting every calendar day from the start date without skipping.
func DateForDayIndex(start time.Time, dayIndex int) time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, dayIndex)
}

// WeekNumberForIndex returns the 1-based course week of a 0-based day index.
func WeekNumberForIndex(dayIndex int) int {
	return dayIndex/7 + 1
}

// WeekNumberForDate returns the 1-based course week of a date relative to a
// start date, counting Monday-aligned calendar weeks. For a start date that
// is itself a Monday this agrees with WeekNumberForIndex.
func WeekNumberForDate(date, start time.Time) int {
	days := int(MondayOf(date).Sub(MondayOf(start)).Hours() / 24)
	return days/7 + 1
}

// EffectiveStart returns the date generation counts from: subscription
// courses snap to the Monday of the start week, fixed courses keep the raw
// start date.
func EffectiveStart(courseType domain.CourseType, start time.Time) time.Time {
	if courseType == domain.CourseTypeSubscription {
		return MondayOf(start)
	}
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
