package schedule

import (
	"errors"

	"fitcourse/backend/internal/domain"
)

// ErrNoTemplateDay means both pools were empty: the template has zero days.
// Validation rejects such templates, so hitting this after a successful
// validation is a programming error and the whole generation pass aborts.
var ErrNoTemplateDay = errors.New("schedule: no template day available to assign")

// Cursors holds the rotation state threaded through one generation pass.
// It is a value: PickNext returns the advanced copy and callers must not
// share cursors across enrollments or across independent passes.
type Cursors struct {
	Main   int
	Warmup int
}

// PickNext decides which template day is assigned to one calendar day.
//
// Workout days consume the main pool round-robin. Non-workout days consume
// the warmup-only pool front to back; once that pool is exhausted, day 0 is
// handed out while the cursor resets to 1 (not 0). That exact wraparound is
// kept as-is; existing calendars depend on which day follows the wrap.
// If no warmup-only days exist at all, non-workout days fall back to the
// main-pool rotation.
func PickNext(isWorkoutDay bool, mainPool, warmupPool []domain.TemplateDay, cur Cursors) (domain.TemplateDay, Cursors, error) {
	switch {
	case isWorkoutDay && len(mainPool) > 0:
		day := mainPool[cur.Main%len(mainPool)]
		cur.Main++
		return day, cur, nil

	case cur.Warmup < len(warmupPool):
		day := warmupPool[cur.Warmup]
		cur.Warmup++
		return day, cur, nil

	case len(warmupPool) > 0:
		cur.Warmup = 1
		return warmupPool[0], cur, nil

	case len(mainPool) > 0:
		day := mainPool[cur.Main%len(mainPool)]
		cur.Main++
		return day, cur, nil

	default:
		return domain.TemplateDay{}, cur, ErrNoTemplateDay
	}
}
