package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository/postgres"
)

// monday is a known Monday used as the course start in these tests.
var monday = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

type calendarFixture struct {
	db          *gorm.DB
	calendar    CalendarService
	completions CompletionService
	enrollments EnrollmentService
}

func newCalendarFixture(t *testing.T) *calendarFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One in-memory database per fixture: every pooled connection must see it.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := postgres.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	enrollmentRepo := postgres.NewEnrollmentRepository(db)
	courseRepo := postgres.NewCourseRepository(db)
	dailyPlanRepo := postgres.NewDailyPlanRepository(db)
	completionRepo := postgres.NewCompletionRepository(db)

	log := logger.NewNop()
	completions := NewCompletionService(completionRepo, dailyPlanRepo, log)
	calendar := NewCalendarService(db, enrollmentRepo, dailyPlanRepo, completions, log)
	enrollments := NewEnrollmentService(db, enrollmentRepo, courseRepo, dailyPlanRepo, completionRepo, calendar, log)

	return &calendarFixture{
		db:          db,
		calendar:    calendar,
		completions: completions,
		enrollments: enrollments,
	}
}

// seedCourse builds a published course whose template carries mainPerWeek
// main-workout days (day numbers 1..mainPerWeek) and warmup-only days for
// the rest of each week. Template day IDs are assigned up front so tests can
// assert on the assignment order.
func seedCourse(t *testing.T, db *gorm.DB, courseType domain.CourseType, weeks, mainPerWeek int, allowed []int) *domain.Course {
	t.Helper()

	course := &domain.Course{
		ID:                        uuid.New(),
		Title:                     fmt.Sprintf("%d-week test course", weeks),
		Type:                      courseType,
		DurationWeeks:             weeks,
		AllowedWorkoutDaysPerWeek: datatypes.JSONSlice[int](allowed),
		Published:                 true,
	}
	for week := 1; week <= weeks; week++ {
		for dayInWeek := 1; dayInWeek <= 7; dayInWeek++ {
			warmupID := uuid.New()
			day := domain.TemplateDay{
				ID:              uuid.New(),
				CourseID:        course.ID,
				WeekNumber:      week,
				DayNumberInWeek: dayInWeek,
				WarmupID:        &warmupID,
			}
			if dayInWeek <= mainPerWeek {
				day.MainWorkouts = []domain.TemplateDayWorkout{
					{WorkoutID: uuid.New(), Position: 1},
				}
			}
			course.TemplateDays = append(course.TemplateDays, day)
		}
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func seedEnrollment(t *testing.T, db *gorm.DB, course *domain.Course, start time.Time, days ...domain.Weekday) *domain.Enrollment {
	t.Helper()

	enrollment := &domain.Enrollment{
		ID:                  uuid.New(),
		UserID:              uuid.New(),
		CourseID:            course.ID,
		StartDate:           start,
		SelectedWorkoutDays: datatypes.JSONSlice[domain.Weekday](days),
		Active:              true,
	}
	if err := db.Create(enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return enrollment
}

// templateDayAt returns the template day at the given (week, dayInWeek)
// position of the seeded grid.
func templateDayAt(course *domain.Course, week, dayInWeek int) domain.TemplateDay {
	for _, d := range course.TemplateDays {
		if d.WeekNumber == week && d.DayNumberInWeek == dayInWeek {
			return d
		}
	}
	panic("template day not seeded")
}

func countDailyPlans(t *testing.T, db *gorm.DB, enrollmentID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.DailyPlan{}).Where("enrollment_id = ?", enrollmentID).Count(&n).Error; err != nil {
		t.Fatalf("count daily plans: %v", err)
	}
	return n
}

func TestGenerateForEnrollmentAssignsTemplateDays(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 5, []int{3, 5})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	plans, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}
	if len(plans) != 7 {
		t.Fatalf("expected 7 daily plans, got %d", len(plans))
	}

	// Main days rotate front-to-back over the workout days; rest days cycle
	// the warmup-only pool, wrapping after the second warmup day.
	wantTemplate := []domain.TemplateDay{
		templateDayAt(course, 1, 1), // Mon: main #1
		templateDayAt(course, 1, 6), // Tue: warmup #1
		templateDayAt(course, 1, 2), // Wed: main #2
		templateDayAt(course, 1, 7), // Thu: warmup #2
		templateDayAt(course, 1, 3), // Fri: main #3
		templateDayAt(course, 1, 6), // Sat: warmup #1 again (wrap)
		templateDayAt(course, 1, 7), // Sun: warmup #2
	}
	wantWorkout := []bool{true, false, true, false, true, false, false}

	for i, plan := range plans {
		if plan.DayNumberInCourse != i+1 {
			t.Errorf("day %d: got dayNumberInCourse %d", i+1, plan.DayNumberInCourse)
		}
		if wantDate := monday.AddDate(0, 0, i); !plan.Date.Equal(wantDate) {
			t.Errorf("day %d: got date %s, want %s", i+1, plan.Date, wantDate)
		}
		if plan.WeekNumber != 1 {
			t.Errorf("day %d: got week %d, want 1", i+1, plan.WeekNumber)
		}
		if plan.IsWorkoutDay != wantWorkout[i] {
			t.Errorf("day %d: got isWorkoutDay %v, want %v", i+1, plan.IsWorkoutDay, wantWorkout[i])
		}
		if plan.TemplateDayID != wantTemplate[i].ID {
			t.Errorf("day %d: assigned template day (%d,%d) not expected",
				i+1, wantTemplate[i].WeekNumber, wantTemplate[i].DayNumberInWeek)
		}
		if wantWorkout[i] && len(plan.MainWorkouts) == 0 {
			t.Errorf("day %d: workout day has no main workouts", i+1)
		}
		if !wantWorkout[i] && len(plan.MainWorkouts) != 0 {
			t.Errorf("day %d: rest day carries main workouts", i+1)
		}
	}
}

func TestGenerateForEnrollmentSubscriptionStartsOnMonday(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeSubscription, 1, 3, []int{3})
	wednesday := monday.AddDate(0, 0, 2)
	enrollment := seedEnrollment(t, fx.db, course, wednesday, domain.Monday, domain.Wednesday, domain.Friday)

	plans, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}
	if !plans[0].Date.Equal(monday) {
		t.Errorf("subscription calendar starts %s, want Monday %s", plans[0].Date, monday)
	}
}

func TestGenerateForEnrollmentValidationWritesNothing(t *testing.T) {
	fx := newCalendarFixture(t)
	// Quota is 5 but the template only has 4 main days per week.
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 4, []int{3, 5})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	_, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Reasons) == 0 {
		t.Error("ValidationError carries no reasons")
	}
	if n := countDailyPlans(t, fx.db, enrollment.ID); n != 0 {
		t.Errorf("validation failure wrote %d daily plans", n)
	}
}

func TestGenerateForEnrollmentUnknownEnrollment(t *testing.T) {
	fx := newCalendarFixture(t)
	if _, err := fx.calendar.GenerateForEnrollment(context.Background(), uuid.New()); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Fatalf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestGenerateForWeekRebuildsOnlyThatWeek(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 2, 3, []int{3})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	initial, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}
	if len(initial) != 14 {
		t.Fatalf("expected 14 daily plans, got %d", len(initial))
	}
	initialIDs := make(map[int]uuid.UUID, len(initial))
	for _, p := range initial {
		initialIDs[p.DayNumberInCourse] = p.ID
	}

	week2, err := fx.calendar.GenerateForWeek(context.Background(), enrollment.ID, 2)
	if err != nil {
		t.Fatalf("GenerateForWeek: %v", err)
	}
	if len(week2) != 7 {
		t.Fatalf("expected 7 regenerated plans, got %d", len(week2))
	}
	for _, p := range week2 {
		if p.WeekNumber != 2 {
			t.Errorf("regenerated plan %d is in week %d", p.DayNumberInCourse, p.WeekNumber)
		}
		if p.ID == initialIDs[p.DayNumberInCourse] {
			t.Errorf("day %d: rebuilt week kept the old row ID", p.DayNumberInCourse)
		}
	}
	if n := countDailyPlans(t, fx.db, enrollment.ID); n != 14 {
		t.Errorf("expected 14 daily plans after week rebuild, got %d", n)
	}

	for _, week := range []int{0, 3} {
		if _, err := fx.calendar.GenerateForWeek(context.Background(), enrollment.ID, week); !errors.Is(err, ErrInvalidWeekNumber) {
			t.Errorf("week %d: expected ErrInvalidWeekNumber, got %v", week, err)
		}
	}
}

func TestUpdatePlansPreservesRowIdentity(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 5, []int{3, 5})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	initial, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}
	initialIDs := make(map[int]uuid.UUID, len(initial))
	for _, p := range initial {
		initialIDs[p.DayNumberInCourse] = p.ID
	}

	updated, err := fx.calendar.UpdatePlans(context.Background(), enrollment.ID,
		[]domain.Weekday{domain.Tuesday, domain.Thursday, domain.Saturday}, false)
	if err != nil {
		t.Fatalf("UpdatePlans: %v", err)
	}
	if len(updated) != 7 {
		t.Fatalf("expected 7 daily plans after update, got %d", len(updated))
	}
	for _, p := range updated {
		if p.ID != initialIDs[p.DayNumberInCourse] {
			t.Errorf("day %d: row identity changed across regeneration", p.DayNumberInCourse)
		}
		isWorkout := p.DayOfWeek == domain.Tuesday || p.DayOfWeek == domain.Thursday || p.DayOfWeek == domain.Saturday
		if p.IsWorkoutDay != isWorkout {
			t.Errorf("day %d (%s): got isWorkoutDay %v", p.DayNumberInCourse, p.DayOfWeek, p.IsWorkoutDay)
		}
	}

	var stored domain.Enrollment
	if err := fx.db.First(&stored, "id = ?", enrollment.ID).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	want := []domain.Weekday{domain.Tuesday, domain.Thursday, domain.Saturday}
	if len(stored.SelectedWorkoutDays) != len(want) {
		t.Fatalf("stored selection %v, want %v", stored.SelectedWorkoutDays, want)
	}
	for i, wd := range want {
		if stored.SelectedWorkoutDays[i] != wd {
			t.Errorf("stored selection %v, want %v", stored.SelectedWorkoutDays, want)
			break
		}
	}
}

func TestUpdatePlansSameSelectionIsStable(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 5, []int{3, 5})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	initial, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}

	updated, err := fx.calendar.UpdatePlans(context.Background(), enrollment.ID,
		[]domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday}, true)
	if err != nil {
		t.Fatalf("UpdatePlans: %v", err)
	}
	for i := range initial {
		if updated[i].ID != initial[i].ID || updated[i].TemplateDayID != initial[i].TemplateDayID {
			t.Errorf("day %d: regeneration with the same selection changed the calendar", i+1)
		}
	}
}

func TestUpdatePlansRealignsCompletions(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 5, []int{2, 5})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	initial, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}

	// Complete the Monday workout (day 1, first main template day).
	completion, err := fx.completions.RecordCompletion(context.Background(), enrollment.UserID, initial[0].ID, "felt good")
	if err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	updated, err := fx.calendar.UpdatePlans(context.Background(), enrollment.ID,
		[]domain.Weekday{domain.Tuesday, domain.Thursday}, true)
	if err != nil {
		t.Fatalf("UpdatePlans: %v", err)
	}

	// Monday is a rest day now; the first main template day moved to Tuesday
	// (day 2). The completion must follow it there.
	var stored domain.WorkoutCompletion
	if err := fx.db.First(&stored, "id = ?", completion.ID).Error; err != nil {
		t.Fatalf("completion did not survive realignment: %v", err)
	}
	if stored.DailyPlanID != updated[1].ID {
		t.Errorf("completion points at plan %s, want Tuesday's plan %s", stored.DailyPlanID, updated[1].ID)
	}
	if updated[1].TemplateDayID != initial[0].TemplateDayID {
		t.Fatalf("test setup: first main template day did not move to Tuesday")
	}
}

func TestUpdatePlansDiscardsCompletionsWhenRequested(t *testing.T) {
	fx := newCalendarFixture(t)
	course := seedCourse(t, fx.db, domain.CourseTypeFixed, 1, 5, []int{2, 5})
	enrollment := seedEnrollment(t, fx.db, course, monday, domain.Monday, domain.Wednesday, domain.Friday)

	initial, err := fx.calendar.GenerateForEnrollment(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("GenerateForEnrollment: %v", err)
	}
	if _, err := fx.completions.RecordCompletion(context.Background(), enrollment.UserID, initial[0].ID, ""); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	if _, err := fx.calendar.UpdatePlans(context.Background(), enrollment.ID,
		[]domain.Weekday{domain.Tuesday, domain.Thursday}, false); err != nil {
		t.Fatalf("UpdatePlans: %v", err)
	}

	var n int64
	if err := fx.db.Model(&domain.WorkoutCompletion{}).Where("enrollment_id = ?", enrollment.ID).Count(&n).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if n != 0 {
		t.Errorf("expected completions to be discarded, found %d", n)
	}
}

func TestUpdatePlansRejectsEmptySelection(t *testing.T) {
	fx := newCalendarFixture(t)
	if _, err := fx.calendar.UpdatePlans(context.Background(), uuid.New(), nil, true); !errors.Is(err, ErrNoWorkoutDays) {
		t.Fatalf("expected ErrNoWorkoutDays, got %v", err)
	}
}
