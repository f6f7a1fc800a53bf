package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository"
	"fitcourse/backend/internal/schedule"
)

// --- Error Definitions ---
var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrCourseNotFound     = errors.New("course for enrollment not found")
	ErrInvalidWeekNumber  = errors.New("week number is outside the course duration")
	ErrNoWorkoutDays      = errors.New("at least one workout day must be selected")
)

// ValidationError reports every rule the course template violates. Nothing
// is written when it is returned.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "course template validation failed: " + strings.Join(e.Reasons, "; ")
}

// CompletionRealigner reconciles recorded workout completions against a
// regenerated calendar. The calendar service calls exactly one of the two
// methods after a successful regeneration, inside the same transaction.
type CompletionRealigner interface {
	Realign(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID, previous, updated []domain.DailyPlan) error
	DeleteAllForEnrollment(ctx context.Context, tx *gorm.DB, userID, enrollmentID uuid.UUID) error
}

// CalendarService generates and regenerates per-enrollment daily plans from
// a course template. Every entry point runs in one transaction: either the
// whole calendar is written or nothing is.
type CalendarService interface {
	// GenerateForEnrollment creates the full calendar for a fresh enrollment.
	GenerateForEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.DailyPlan, error)
	// GenerateForWeek regenerates a single course week from scratch.
	GenerateForWeek(ctx context.Context, enrollmentID uuid.UUID, weekNumber int) ([]domain.DailyPlan, error)
	// UpdatePlans regenerates the whole calendar for a changed weekday
	// selection, updating rows in place so their identity survives, then
	// hands recorded completions to the realigner (or drops them when the
	// caller does not want progress kept).
	UpdatePlans(ctx context.Context, enrollmentID uuid.UUID, newDays []domain.Weekday, keepProgress bool) ([]domain.DailyPlan, error)
}

// calendarService implements the CalendarService interface.
type calendarService struct {
	db          *gorm.DB
	enrollments repository.EnrollmentRepository
	dailyPlans  repository.DailyPlanRepository
	realigner   CompletionRealigner
	log         *logger.Logger
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(
	db *gorm.DB,
	enrollments repository.EnrollmentRepository,
	dailyPlans repository.DailyPlanRepository,
	realigner CompletionRealigner,
	log *logger.Logger,
) CalendarService {
	return &calendarService{
		db:          db,
		enrollments: enrollments,
		dailyPlans:  dailyPlans,
		realigner:   realigner,
		log:         log.With("service", "CalendarService"),
	}
}

func (s *calendarService) GenerateForEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]domain.DailyPlan, error) {
	var out []domain.DailyPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, course, err := s.loadValidated(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}

		plans, err := buildPlans(enrollment, course, enrollment.SelectedWorkoutDays, 0, course.DurationWeeks*7)
		if err != nil {
			return err
		}
		if err := s.dailyPlans.CreateBatch(ctx, tx, plans); err != nil {
			return err
		}

		out, err = s.dailyPlans.GetByEnrollmentID(ctx, tx, enrollmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("generated enrollment calendar", "enrollmentId", enrollmentID, "days", len(out))
	return out, nil
}

func (s *calendarService) GenerateForWeek(ctx context.Context, enrollmentID uuid.UUID, weekNumber int) ([]domain.DailyPlan, error) {
	var out []domain.DailyPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, course, err := s.loadValidated(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if weekNumber < 1 || weekNumber > course.DurationWeeks {
			return ErrInvalidWeekNumber
		}

		// The week is rebuilt from scratch.
		if err := s.dailyPlans.DeleteByEnrollmentAndWeek(ctx, tx, enrollmentID, weekNumber); err != nil {
			return err
		}

		from := (weekNumber - 1) * 7
		plans, err := buildPlans(enrollment, course, enrollment.SelectedWorkoutDays, from, from+7)
		if err != nil {
			return err
		}
		if err := s.dailyPlans.CreateBatch(ctx, tx, plans); err != nil {
			return err
		}

		for _, p := range plans {
			out = append(out, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("regenerated course week", "enrollmentId", enrollmentID, "week", weekNumber)
	return out, nil
}

func (s *calendarService) UpdatePlans(ctx context.Context, enrollmentID uuid.UUID, newDays []domain.Weekday, keepProgress bool) ([]domain.DailyPlan, error) {
	if len(newDays) == 0 {
		return nil, ErrNoWorkoutDays
	}

	var out []domain.DailyPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment, course, err := s.loadValidated(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}

		previous, err := s.dailyPlans.GetByEnrollmentID(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}

		// Assignment runs against the new selection before it is persisted.
		plans, err := buildPlans(enrollment, course, newDays, 0, course.DurationWeeks*7)
		if err != nil {
			return err
		}
		for _, plan := range plans {
			mainWorkouts := plan.MainWorkouts
			plan.MainWorkouts = nil
			if err := s.dailyPlans.Upsert(ctx, tx, plan); err != nil {
				return err
			}
			if err := s.dailyPlans.ReplaceMainWorkouts(ctx, tx, plan.ID, mainWorkouts); err != nil {
				return err
			}
		}

		// Restore the contiguity invariant in case the regenerated sequence
		// came out shorter than what was on disk.
		if err := s.dailyPlans.DeleteWhereDayNumberGreaterThan(ctx, tx, enrollmentID, len(plans)); err != nil {
			return err
		}

		if err := s.enrollments.UpdateSelectedDays(ctx, tx, enrollmentID, newDays); err != nil {
			return err
		}

		updated, err := s.dailyPlans.GetByEnrollmentID(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}

		if keepProgress {
			err = s.realigner.Realign(ctx, tx, enrollment.UserID, enrollmentID, previous, updated)
		} else {
			err = s.realigner.DeleteAllForEnrollment(ctx, tx, enrollment.UserID, enrollmentID)
		}
		if err != nil {
			return err
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("regenerated enrollment calendar", "enrollmentId", enrollmentID, "days", len(out), "keepProgress", keepProgress)
	return out, nil
}

// loadValidated fetches the enrollment with its course template and runs the
// template validator. Generation never proceeds past a failed validation.
func (s *calendarService) loadValidated(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*domain.Enrollment, *domain.Course, error) {
	enrollment, err := s.enrollments.GetWithCourse(ctx, tx, enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrEnrollmentNotFound
		}
		return nil, nil, err
	}
	if enrollment.Course == nil {
		return nil, nil, ErrCourseNotFound
	}

	course := enrollment.Course
	if res := schedule.ValidateTemplate(course, course.TemplateDays); !res.Valid {
		s.log.Warn("course template failed validation", "courseId", course.ID, "errors", res.Errors)
		return nil, nil, &ValidationError{Reasons: res.Errors}
	}
	return enrollment, course, nil
}

// buildPlans runs the assignment engine over the day-index range [from, to)
// and materializes one daily plan per index. Pools and cursors are local to
// the pass.
func buildPlans(enrollment *domain.Enrollment, course *domain.Course, selected []domain.Weekday, from, to int) ([]*domain.DailyPlan, error) {
	mainPool, warmupPool := schedule.SplitPools(course.TemplateDays)
	start := schedule.EffectiveStart(course.Type, enrollment.StartDate)

	var cur schedule.Cursors
	plans := make([]*domain.DailyPlan, 0, to-from)
	for idx := from; idx < to; idx++ {
		date := schedule.DateForDayIndex(start, idx)
		weekday := domain.WeekdayOf(date.Weekday())
		isWorkoutDay := domain.ContainsWeekday(selected, weekday)

		templateDay, next, err := schedule.PickNext(isWorkoutDay, mainPool, warmupPool, cur)
		if err != nil {
			// Validation guarantees a non-empty template; this is a bug.
			return nil, fmt.Errorf("assigning day index %d: %w", idx, err)
		}
		cur = next

		plan := &domain.DailyPlan{
			EnrollmentID:      enrollment.ID,
			UserID:            enrollment.UserID,
			DayNumberInCourse: idx + 1,
			Date:              date,
			WeekNumber:        schedule.WeekNumberForIndex(idx),
			DayOfWeek:         weekday,
			IsWorkoutDay:      isWorkoutDay,
			WarmupID:          templateDay.WarmupID,
			MealPlanID:        templateDay.MealPlanID,
			TemplateDayID:     templateDay.ID,
		}
		if isWorkoutDay && templateDay.HasMainWorkouts() {
			for _, mw := range templateDay.MainWorkouts {
				plan.MainWorkouts = append(plan.MainWorkouts, domain.DailyPlanWorkout{
					WorkoutID: mw.WorkoutID,
					Position:  mw.Position,
				})
			}
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
