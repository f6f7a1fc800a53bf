package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository"
	"fitcourse/backend/internal/schedule"
	"fitcourse/backend/internal/storage"
)

// --- Error Definitions ---
var (
	ErrCourseMissing      = errors.New("course not found")
	ErrTemplateDayMissing = errors.New("template day not found")
	ErrInvalidTemplateDay = errors.New("template day position is outside the course grid")
)

// CourseService covers the admin side of the catalog: course CRUD, template
// day authoring and publishing. Publishing is gated on the same template
// validator the calendar engine runs, so an unpublishable course can never
// reach enrollment.
type CourseService interface {
	CreateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error)
	UpdateCourse(ctx context.Context, course *domain.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error)

	AddTemplateDay(ctx context.Context, day *domain.TemplateDay) (*domain.TemplateDay, error)
	UpdateTemplateDay(ctx context.Context, day *domain.TemplateDay) error
	DeleteTemplateDay(ctx context.Context, id uuid.UUID) error

	// ValidateCourse runs the template validator without publishing.
	ValidateCourse(ctx context.Context, id uuid.UUID) (schedule.ValidationResult, error)
	// Publish validates the template and flips the published flag; it
	// returns a ValidationError when the template is not generation-ready.
	Publish(ctx context.Context, id uuid.UUID) error
	Unpublish(ctx context.Context, id uuid.UUID) error

	// CoverUploadURL returns a presigned PUT URL for the course cover image
	// and records the object key on the course.
	CoverUploadURL(ctx context.Context, id uuid.UUID, contentType string) (string, error)
	CoverDownloadURL(ctx context.Context, course *domain.Course) (string, error)
}

// courseService implements the CourseService interface.
type courseService struct {
	courses repository.CourseRepository
	files   storage.FileStorage
	log     *logger.Logger
}

// NewCourseService creates a new instance of courseService.
func NewCourseService(courses repository.CourseRepository, files storage.FileStorage, log *logger.Logger) CourseService {
	return &courseService{
		courses: courses,
		files:   files,
		log:     log.With("service", "CourseService"),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if course.DurationWeeks < 1 {
		return nil, errors.New("course duration must be at least one week")
	}
	if course.WeeklyQuota() < 1 {
		return nil, errors.New("course must allow at least one workout day per week")
	}
	course.Published = false // Courses always start unpublished
	id, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id
	s.log.Info("course created", "courseId", id, "title", course.Title)
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, course *domain.Course) error {
	err := s.courses.Update(ctx, course)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseMissing
	}
	return err
}

func (s *courseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	err := s.courses.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseMissing
	}
	return err
}

func (s *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseMissing
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	return s.courses.List(ctx, publishedOnly)
}

func (s *courseService) AddTemplateDay(ctx context.Context, day *domain.TemplateDay) (*domain.TemplateDay, error) {
	course, err := s.GetCourse(ctx, day.CourseID)
	if err != nil {
		return nil, err
	}
	if err := checkDayPosition(course, day); err != nil {
		return nil, err
	}
	id, err := s.courses.AddTemplateDay(ctx, day)
	if err != nil {
		return nil, err
	}
	day.ID = id
	return day, nil
}

func (s *courseService) UpdateTemplateDay(ctx context.Context, day *domain.TemplateDay) error {
	course, err := s.GetCourse(ctx, day.CourseID)
	if err != nil {
		return err
	}
	if err := checkDayPosition(course, day); err != nil {
		return err
	}
	err = s.courses.UpdateTemplateDay(ctx, day)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateDayMissing
	}
	return err
}

func (s *courseService) DeleteTemplateDay(ctx context.Context, id uuid.UUID) error {
	err := s.courses.DeleteTemplateDay(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateDayMissing
	}
	return err
}

func (s *courseService) ValidateCourse(ctx context.Context, id uuid.UUID) (schedule.ValidationResult, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return schedule.ValidationResult{}, err
	}
	return schedule.ValidateTemplate(course, course.TemplateDays), nil
}

func (s *courseService) Publish(ctx context.Context, id uuid.UUID) error {
	res, err := s.ValidateCourse(ctx, id)
	if err != nil {
		return err
	}
	if !res.Valid {
		return &ValidationError{Reasons: res.Errors}
	}
	if err := s.courses.SetPublished(ctx, id, true); err != nil {
		return err
	}
	s.log.Info("course published", "courseId", id)
	return nil
}

func (s *courseService) Unpublish(ctx context.Context, id uuid.UUID) error {
	return s.courses.SetPublished(ctx, id, false)
}

func (s *courseService) CoverUploadURL(ctx context.Context, id uuid.UUID, contentType string) (string, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("courses/%s/cover-%d", id, time.Now().UTC().Unix())
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}
	course.CoverImageKey = key
	if err := s.courses.Update(ctx, course); err != nil {
		return "", err
	}
	return url, nil
}

func (s *courseService) CoverDownloadURL(ctx context.Context, course *domain.Course) (string, error) {
	if course.CoverImageKey == "" {
		return "", nil
	}
	return s.files.GeneratePresignedDownloadURL(ctx, course.CoverImageKey, storage.DefaultPresignedURLExpiry)
}

// checkDayPosition keeps authored days inside the course's week grid.
func checkDayPosition(course *domain.Course, day *domain.TemplateDay) error {
	if day.WeekNumber < 1 || day.DayNumberInWeek < 1 || day.DayNumberInWeek > 7 {
		return ErrInvalidTemplateDay
	}
	return nil
}
