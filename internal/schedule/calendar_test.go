package schedule

import (
	"testing"
	"time"

	"fitcourse/backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "monday_is_identity", in: date(2025, time.March, 3), want: date(2025, time.March, 3)},
		{name: "wednesday", in: date(2025, time.March, 5), want: date(2025, time.March, 3)},
		{name: "sunday_belongs_to_previous_monday", in: date(2025, time.March, 9), want: date(2025, time.March, 3)},
		{name: "truncates_time_of_day", in: time.Date(2025, time.March, 7, 15, 30, 0, 0, time.UTC), want: date(2025, time.March, 3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MondayOf(tc.in); !got.Equal(tc.want) {
				t.Fatalf("MondayOf(%v)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDateForDayIndex(t *testing.T) {
	start := date(2025, time.March, 3)
	if got := DateForDayIndex(start, 0); !got.Equal(start) {
		t.Fatalf("index 0 = %v, want %v", got, start)
	}
	if got, want := DateForDayIndex(start, 13), date(2025, time.March, 16); !got.Equal(want) {
		t.Fatalf("index 13 = %v, want %v", got, want)
	}
}

func TestWeekNumberFormulasAgreeForMondayStart(t *testing.T) {
	start := date(2025, time.March, 3) // a Monday
	for idx := 0; idx < 28; idx++ {
		byIndex := WeekNumberForIndex(idx)
		byDate := WeekNumberForDate(DateForDayIndex(start, idx), start)
		if byIndex != byDate {
			t.Fatalf("day index %d: WeekNumberForIndex=%d, WeekNumberForDate=%d", idx, byIndex, byDate)
		}
	}
}

func TestWeekNumberForDateMidWeekStart(t *testing.T) {
	start := date(2025, time.March, 5) // Wednesday
	cases := []struct {
		name string
		day  time.Time
		want int
	}{
		{name: "start_day", day: start, want: 1},
		{name: "same_calendar_week", day: date(2025, time.March, 9), want: 1},
		{name: "next_monday", day: date(2025, time.March, 10), want: 2},
		{name: "two_weeks_out", day: date(2025, time.March, 19), want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekNumberForDate(tc.day, start); got != tc.want {
				t.Fatalf("WeekNumberForDate(%v, %v)=%d, want %d", tc.day, start, got, tc.want)
			}
		})
	}
}

func TestEffectiveStart(t *testing.T) {
	thursday := date(2025, time.March, 6)
	if got, want := EffectiveStart(domain.CourseTypeSubscription, thursday), date(2025, time.March, 3); !got.Equal(want) {
		t.Fatalf("subscription start = %v, want %v", got, want)
	}
	if got := EffectiveStart(domain.CourseTypeFixed, thursday); !got.Equal(thursday) {
		t.Fatalf("fixed start = %v, want %v", got, thursday)
	}
}
