package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository"
)

// --- Error Definitions ---
var (
	ErrCourseNotPublished   = errors.New("course is not published")
	ErrNotEnrolled          = errors.New("user has no active enrollment")
	ErrWorkoutDayCount      = errors.New("selected workout day count is not allowed for this course")
	ErrDuplicateWorkoutDays = errors.New("selected workout days contain duplicates")
)

// EnrollmentService manages course enrollments and fronts the calendar
// engine for the API layer. The one-active-enrollment-per-user invariant is
// enforced here, not in the calendar core.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID, startDate time.Time, days []domain.Weekday) (*domain.Enrollment, []domain.DailyPlan, error)
	ChangeSchedule(ctx context.Context, userID uuid.UUID, days []domain.Weekday, keepProgress bool) ([]domain.DailyPlan, error)
	GetCalendar(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, []domain.DailyPlan, error)
	Unenroll(ctx context.Context, userID uuid.UUID) error
}

// enrollmentService implements the EnrollmentService interface.
type enrollmentService struct {
	db          *gorm.DB
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	dailyPlans  repository.DailyPlanRepository
	completions repository.CompletionRepository
	calendar    CalendarService
	log         *logger.Logger
}

// NewEnrollmentService creates a new instance of enrollmentService.
func NewEnrollmentService(
	db *gorm.DB,
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	dailyPlans repository.DailyPlanRepository,
	completions repository.CompletionRepository,
	calendar CalendarService,
	log *logger.Logger,
) EnrollmentService {
	return &enrollmentService{
		db:          db,
		enrollments: enrollments,
		courses:     courses,
		dailyPlans:  dailyPlans,
		completions: completions,
		calendar:    calendar,
		log:         log.With("service", "EnrollmentService"),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID, startDate time.Time, days []domain.Weekday) (*domain.Enrollment, []domain.DailyPlan, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, err
	}
	if !course.Published {
		return nil, nil, ErrCourseNotPublished
	}
	if err := validateSelection(course, days); err != nil {
		return nil, nil, err
	}

	enrollment := &domain.Enrollment{
		UserID:              userID,
		CourseID:            courseID,
		StartDate:           startDate,
		SelectedWorkoutDays: days,
		Active:              true,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.enrollments.DeactivateAllForUser(ctx, tx, userID); err != nil {
			return err
		}
		_, err := s.enrollments.Create(ctx, tx, enrollment)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	plans, err := s.calendar.GenerateForEnrollment(ctx, enrollment.ID)
	if err != nil {
		// Generation is atomic on its own; remove the bare enrollment so a
		// failed enroll leaves nothing behind.
		if delErr := s.enrollments.Delete(ctx, nil, enrollment.ID); delErr != nil {
			s.log.Error("failed to clean up enrollment after generation failure",
				"enrollmentId", enrollment.ID, "error", delErr)
		}
		return nil, nil, err
	}

	s.log.Info("user enrolled", "userId", userID, "courseId", courseID, "enrollmentId", enrollment.ID)
	return enrollment, plans, nil
}

func (s *enrollmentService) ChangeSchedule(ctx context.Context, userID uuid.UUID, days []domain.Weekday, keepProgress bool) ([]domain.DailyPlan, error) {
	enrollment, err := s.activeEnrollment(ctx, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if err := validateSelection(course, days); err != nil {
		return nil, err
	}
	return s.calendar.UpdatePlans(ctx, enrollment.ID, days, keepProgress)
}

func (s *enrollmentService) GetCalendar(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, []domain.DailyPlan, error) {
	enrollment, err := s.activeEnrollment(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	plans, err := s.dailyPlans.GetByEnrollmentID(ctx, nil, enrollment.ID)
	if err != nil {
		return nil, nil, err
	}
	return enrollment, plans, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, userID uuid.UUID) error {
	enrollment, err := s.activeEnrollment(ctx, userID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.completions.DeleteByEnrollmentID(ctx, tx, enrollment.ID); err != nil {
			return err
		}
		if err := s.dailyPlans.DeleteByEnrollmentID(ctx, tx, enrollment.ID); err != nil {
			return err
		}
		return s.enrollments.Delete(ctx, tx, enrollment.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("user unenrolled", "userId", userID, "enrollmentId", enrollment.ID)
	return nil
}

func (s *enrollmentService) activeEnrollment(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	enrollment, err := s.enrollments.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// validateSelection checks the chosen weekday set against the course's
// allowed workout-day counts.
func validateSelection(course *domain.Course, days []domain.Weekday) error {
	if len(days) == 0 {
		return ErrNoWorkoutDays
	}
	seen := make(map[domain.Weekday]bool, len(days))
	for _, d := range days {
		if seen[d] {
			return ErrDuplicateWorkoutDays
		}
		seen[d] = true
	}
	for _, allowed := range course.AllowedWorkoutDaysPerWeek {
		if len(days) == allowed {
			return nil
		}
	}
	return ErrWorkoutDayCount
}
