package schedule

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
)

func mainDay(week, dayInWeek int) domain.TemplateDay {
	warmup := uuid.New()
	return domain.TemplateDay{
		ID:              uuid.New(),
		WeekNumber:      week,
		DayNumberInWeek: dayInWeek,
		WarmupID:        &warmup,
		MainWorkouts: []domain.TemplateDayWorkout{
			{ID: uuid.New(), WorkoutID: uuid.New(), Position: 1},
		},
	}
}

func warmupDay(week, dayInWeek int) domain.TemplateDay {
	warmup := uuid.New()
	return domain.TemplateDay{
		ID:              uuid.New(),
		WeekNumber:      week,
		DayNumberInWeek: dayInWeek,
		WarmupID:        &warmup,
	}
}

func pickSequence(t *testing.T, workoutDays []bool, mainPool, warmupPool []domain.TemplateDay) []uuid.UUID {
	t.Helper()
	var cur Cursors
	var picked []uuid.UUID
	for i, isWorkout := range workoutDays {
		day, next, err := PickNext(isWorkout, mainPool, warmupPool, cur)
		if err != nil {
			t.Fatalf("PickNext day %d: %v", i, err)
		}
		cur = next
		picked = append(picked, day.ID)
	}
	return picked
}

func TestPickNextRoundRobinFairness(t *testing.T) {
	mainPool := []domain.TemplateDay{mainDay(1, 1), mainDay(1, 2), mainDay(1, 3)}

	// 6 consecutive workout days: each main day used exactly once per pass,
	// in template order, before any repeats.
	picked := pickSequence(t, []bool{true, true, true, true, true, true}, mainPool, nil)
	for i, id := range picked {
		if want := mainPool[i%len(mainPool)].ID; id != want {
			t.Fatalf("pick %d = %s, want %s", i, id, want)
		}
	}
}

func TestPickNextWarmupCycleAndWraparound(t *testing.T) {
	mainPool := []domain.TemplateDay{mainDay(1, 1)}
	warmupPool := []domain.TemplateDay{warmupDay(1, 2), warmupDay(1, 3)}

	// 5 consecutive rest days against a 2-day warmup pool: front to back,
	// then the wraparound hands out day 0 and resumes from index 1.
	picked := pickSequence(t, []bool{false, false, false, false, false}, mainPool, warmupPool)
	want := []uuid.UUID{
		warmupPool[0].ID,
		warmupPool[1].ID,
		warmupPool[0].ID,
		warmupPool[1].ID,
		warmupPool[0].ID,
	}
	for i := range want {
		if picked[i] != want[i] {
			t.Fatalf("rest day %d = %s, want %s", i, picked[i], want[i])
		}
	}
}

func TestPickNextWraparoundCursorResetsToOne(t *testing.T) {
	warmupPool := []domain.TemplateDay{warmupDay(1, 1), warmupDay(1, 2), warmupDay(1, 3)}

	day, cur, err := PickNext(false, nil, warmupPool, Cursors{Warmup: 3})
	if err != nil {
		t.Fatalf("PickNext: %v", err)
	}
	if day.ID != warmupPool[0].ID {
		t.Fatalf("wraparound picked %s, want pool day 0 %s", day.ID, warmupPool[0].ID)
	}
	if cur.Warmup != 1 {
		t.Fatalf("wraparound cursor = %d, want 1", cur.Warmup)
	}
}

func TestPickNextWorkoutDaysDoNotAdvanceWarmupCursor(t *testing.T) {
	mainPool := []domain.TemplateDay{mainDay(1, 1), mainDay(1, 2)}
	warmupPool := []domain.TemplateDay{warmupDay(1, 3), warmupDay(1, 4)}

	picked := pickSequence(t, []bool{true, false, true, false}, mainPool, warmupPool)
	want := []uuid.UUID{mainPool[0].ID, warmupPool[0].ID, mainPool[1].ID, warmupPool[1].ID}
	for i := range want {
		if picked[i] != want[i] {
			t.Fatalf("pick %d = %s, want %s", i, picked[i], want[i])
		}
	}
}

func TestPickNextFallsBackToMainPoolWithoutWarmupDays(t *testing.T) {
	mainPool := []domain.TemplateDay{mainDay(1, 1), mainDay(1, 2)}

	picked := pickSequence(t, []bool{true, false, false}, mainPool, nil)
	want := []uuid.UUID{mainPool[0].ID, mainPool[1].ID, mainPool[0].ID}
	for i := range want {
		if picked[i] != want[i] {
			t.Fatalf("pick %d = %s, want %s", i, picked[i], want[i])
		}
	}
}

func TestPickNextEmptyTemplate(t *testing.T) {
	_, _, err := PickNext(true, nil, nil, Cursors{})
	if !errors.Is(err, ErrNoTemplateDay) {
		t.Fatalf("err = %v, want ErrNoTemplateDay", err)
	}
}

func TestPickNextIsDeterministic(t *testing.T) {
	mainPool := []domain.TemplateDay{mainDay(1, 1), mainDay(1, 2)}
	warmupPool := []domain.TemplateDay{warmupDay(1, 3)}

	pattern := []bool{true, false, true, true, false}
	first := pickSequence(t, pattern, mainPool, warmupPool)
	second := pickSequence(t, pattern, mainPool, warmupPool)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pick %d differs between identical passes", i)
		}
	}
}
