package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day-of-week value as stored on enrollments and daily plans.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdayFromTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf converts a time.Weekday into the domain representation.
func WeekdayOf(wd time.Weekday) Weekday {
	return weekdayFromTime[wd]
}

// ParseWeekday converts a user-supplied string into a Weekday.
func ParseWeekday(s string) (Weekday, error) {
	wd := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range weekdayFromTime {
		if wd == known {
			return wd, nil
		}
	}
	return "", fmt.Errorf("invalid weekday: %q", s)
}

// ContainsWeekday reports whether the selection includes the given day.
func ContainsWeekday(days []Weekday, wd Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}
