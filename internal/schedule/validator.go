package schedule

import (
	"fmt"

	"fitcourse/backend/internal/domain"
)

// ValidationResult collects every rule violation found in a course template.
// Generation refuses to run while Valid is false.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// SplitPools partitions template days into the main-workout pool and the
// warmup-only pool, preserving the input (template) order.
func SplitPools(days []domain.TemplateDay) (mainPool, warmupPool []domain.TemplateDay) {
	for _, d := range days {
		if d.HasMainWorkouts() {
			mainPool = append(mainPool, d)
		} else {
			warmupPool = append(warmupPool, d)
		}
	}
	return mainPool, warmupPool
}

// ValidateTemplate checks a course's template days against the coverage and
// quota rules. All violations are reported, none short-circuit. Days with a
// week number beyond the course duration are ignored for quota counting.
func ValidateTemplate(course *domain.Course, days []domain.TemplateDay) ValidationResult {
	var errs []string

	missingWarmup := 0
	for _, d := range days {
		if d.WarmupID == nil {
			missingWarmup++
		}
	}
	if missingWarmup > 0 {
		errs = append(errs, fmt.Sprintf("%d template day(s) are missing a warmup", missingWarmup))
	}

	mainPool, _ := SplitPools(days)

	quota := course.WeeklyQuota()
	mainPerWeek := make(map[int]int, course.DurationWeeks)
	for _, d := range mainPool {
		mainPerWeek[d.WeekNumber]++
	}
	for week := 1; week <= course.DurationWeeks; week++ {
		count := mainPerWeek[week]
		switch {
		case count > quota:
			errs = append(errs, fmt.Sprintf("week %d has %d main-workout days, more than the weekly quota of %d", week, count, quota))
		case count < quota:
			errs = append(errs, fmt.Sprintf("week %d has %d main-workout days, fewer than the weekly quota of %d", week, count, quota))
		}
	}

	if len(mainPool) == 0 {
		errs = append(errs, "course template has no main-workout days")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
