package schedule

import (
	"strings"
	"testing"

	"fitcourse/backend/internal/domain"
	"gorm.io/datatypes"
)

func course(weeks int, allowed ...int) *domain.Course {
	return &domain.Course{
		DurationWeeks:             weeks,
		AllowedWorkoutDaysPerWeek: datatypes.JSONSlice[int](allowed),
	}
}

// fullWeek builds one template week with the given number of main-workout
// days, padding with warmup-only days up to seven.
func fullWeek(week, mains int) []domain.TemplateDay {
	var days []domain.TemplateDay
	for d := 1; d <= 7; d++ {
		if d <= mains {
			days = append(days, mainDay(week, d))
		} else {
			days = append(days, warmupDay(week, d))
		}
	}
	return days
}

func TestValidateTemplateValid(t *testing.T) {
	days := append(fullWeek(1, 3), fullWeek(2, 3)...)
	res := ValidateTemplate(course(2, 2, 3), days)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
}

func TestValidateTemplateMissingWarmup(t *testing.T) {
	days := fullWeek(1, 3)
	days[4].WarmupID = nil

	res := ValidateTemplate(course(1, 3), days)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "missing a warmup") {
		t.Fatalf("unexpected message: %s", res.Errors[0])
	}
}

func TestValidateTemplateQuotaViolations(t *testing.T) {
	cases := []struct {
		name  string
		mains int
		want  string
	}{
		{name: "too_many", mains: 4, want: "more than the weekly quota"},
		{name: "too_few", mains: 2, want: "fewer than the weekly quota"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateTemplate(course(1, 3), fullWeek(1, tc.mains))
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], tc.want) {
				t.Fatalf("errors = %v, want one containing %q", res.Errors, tc.want)
			}
		})
	}
}

func TestValidateTemplateQuotaIsMaxOfAllowed(t *testing.T) {
	// Allowed {2,3,5}: five main days per week is the binding quota.
	res := ValidateTemplate(course(1, 2, 3, 5), fullWeek(1, 5))
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
}

func TestValidateTemplateNoMainWorkoutDays(t *testing.T) {
	res := ValidateTemplate(course(1, 2), fullWeek(1, 0))
	if res.Valid {
		t.Fatal("expected invalid")
	}
	// One error per short week plus the empty-pool error.
	var sawEmptyPool bool
	for _, msg := range res.Errors {
		if strings.Contains(msg, "no main-workout days") {
			sawEmptyPool = true
		}
	}
	if !sawEmptyPool {
		t.Fatalf("errors = %v, want one about the empty main pool", res.Errors)
	}
}

func TestValidateTemplateCollectsAllErrors(t *testing.T) {
	days := append(fullWeek(1, 3), fullWeek(2, 1)...)
	days[0].WarmupID = nil

	res := ValidateTemplate(course(2, 3), days)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected warmup and quota errors together, got %v", res.Errors)
	}
}

func TestValidateTemplateIgnoresDaysBeyondDuration(t *testing.T) {
	// A partial template: days for week 3 exist but the course is two weeks
	// long. The extra week is not counted against any quota.
	days := append(fullWeek(1, 3), fullWeek(2, 3)...)
	days = append(days, fullWeek(3, 7)...)

	res := ValidateTemplate(course(2, 3), days)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
}

func TestSplitPoolsPreservesTemplateOrder(t *testing.T) {
	days := []domain.TemplateDay{
		mainDay(1, 1), warmupDay(1, 2), mainDay(1, 3), warmupDay(1, 4),
	}
	mainPool, warmupPool := SplitPools(days)
	if len(mainPool) != 2 || len(warmupPool) != 2 {
		t.Fatalf("pool sizes = %d/%d, want 2/2", len(mainPool), len(warmupPool))
	}
	if mainPool[0].ID != days[0].ID || mainPool[1].ID != days[2].ID {
		t.Fatal("main pool out of template order")
	}
	if warmupPool[0].ID != days[1].ID || warmupPool[1].ID != days[3].ID {
		t.Fatal("warmup pool out of template order")
	}
}
