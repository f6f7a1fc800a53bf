package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Repositories participating in the calendar generation pass take an
// optional tx handle: when non-nil every statement runs on that transaction,
// when nil the repository falls back to its own injected connection. The
// calendar service opens one transaction per Generate/Regenerate call and
// threads it through, so a call's writes commit or roll back as a unit.

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// CourseRepository defines the interface for course and template-day data.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddTemplateDay(ctx context.Context, day *domain.TemplateDay) (uuid.UUID, error)
	UpdateTemplateDay(ctx context.Context, day *domain.TemplateDay) error
	DeleteTemplateDay(ctx context.Context, id uuid.UUID) error
	// GetTemplateDays returns a course's template days ordered by week and
	// day number, main workouts preloaded in position order.
	GetTemplateDays(ctx context.Context, courseID uuid.UUID) ([]domain.TemplateDay, error)
}

// WorkoutRepository defines the interface for the workout library.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	List(ctx context.Context, kind domain.WorkoutKind) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnrollmentRepository defines the interface for enrollment data.
type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) (uuid.UUID, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Enrollment, error)
	// GetWithCourse loads the enrollment together with its course and the
	// course's ordered template days.
	GetWithCourse(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Enrollment, error)
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error)
	DeactivateAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	UpdateSelectedDays(ctx context.Context, tx *gorm.DB, id uuid.UUID, days []domain.Weekday) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

// DailyPlanRepository defines the interface for generated daily plan rows.
type DailyPlanRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, plans []*domain.DailyPlan) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.DailyPlan, error)
	// GetByEnrollmentID returns plans ordered by day number, main workouts
	// preloaded in position order.
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]domain.DailyPlan, error)
	// Upsert updates the row keyed by (enrollmentId, dayNumberInCourse) in
	// place, preserving its identity, or inserts it when absent. The plan's
	// ID is set to the persisted row's ID.
	Upsert(ctx context.Context, tx *gorm.DB, plan *domain.DailyPlan) error
	ReplaceMainWorkouts(ctx context.Context, tx *gorm.DB, planID uuid.UUID, workouts []domain.DailyPlanWorkout) error
	DeleteByEnrollmentAndWeek(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, weekNumber int) error
	DeleteWhereDayNumberGreaterThan(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, dayNumber int) error
	DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error
}

// CompletionRepository defines the interface for workout completion records.
type CompletionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, completion *domain.WorkoutCompletion) (uuid.UUID, error)
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]domain.WorkoutCompletion, error)
	GetByDailyPlanID(ctx context.Context, tx *gorm.DB, dailyPlanID uuid.UUID) (*domain.WorkoutCompletion, error)
	UpdateDailyPlanID(ctx context.Context, tx *gorm.DB, id, dailyPlanID uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error
}

// RecipeRepository defines the interface for recipe data.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChatRepository defines the interface for support chat messages.
type ChatRepository interface {
	CreateMessage(ctx context.Context, message *domain.ChatMessage) (uuid.UUID, error)
	// GetThread returns a user's messages oldest first.
	GetThread(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error)
	// ListThreadUserIDs returns the users with at least one message, most
	// recent activity first.
	ListThreadUserIDs(ctx context.Context) ([]uuid.UUID, error)
	MarkThreadRead(ctx context.Context, userID uuid.UUID, sender domain.ChatSender, at time.Time) error
}
