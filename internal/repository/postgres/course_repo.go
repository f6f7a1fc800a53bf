package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresCourseRepository implements repository.CourseRepository
type postgresCourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) repository.CourseRepository {
	return &postgresCourseRepository{db: db}
}

func (r *postgresCourseRepository) Create(ctx context.Context, course *domain.Course) (uuid.UUID, error) {
	if course.Title == "" || course.DurationWeeks < 1 {
		return uuid.Nil, errors.New("course requires a title and a duration of at least one week")
	}
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return uuid.Nil, err
	}
	return course.ID, nil
}

// withOrderedTemplate preloads template days in (week, day) order and their
// main workouts in position order.
func withOrderedTemplate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TemplateDays", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC, day_number_in_week ASC")
		}).
		Preload("TemplateDays.MainWorkouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *postgresCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := withOrderedTemplate(r.db.WithContext(ctx)).Where("id = ?", id).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *postgresCourseRepository) List(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	var courses []domain.Course
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	if err := q.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *postgresCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	if course.ID == uuid.Nil {
		return errors.New("course ID is required for update")
	}
	result := r.db.WithContext(ctx).Model(&domain.Course{}).Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"title":                         course.Title,
			"description":                   course.Description,
			"type":                          course.Type,
			"duration_weeks":                course.DurationWeeks,
			"allowed_workout_days_per_week": course.AllowedWorkoutDaysPerWeek,
			"cover_image_key":               course.CoverImageKey,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresCourseRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Course{}).Where("id = ?", id).
		Update("published", published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresCourseRepository) AddTemplateDay(ctx context.Context, day *domain.TemplateDay) (uuid.UUID, error) {
	if day.CourseID == uuid.Nil {
		return uuid.Nil, errors.New("template day requires a course ID")
	}
	if err := r.db.WithContext(ctx).Create(day).Error; err != nil {
		return uuid.Nil, err
	}
	return day.ID, nil
}

func (r *postgresCourseRepository) UpdateTemplateDay(ctx context.Context, day *domain.TemplateDay) error {
	if day.ID == uuid.Nil {
		return errors.New("template day ID is required for update")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.TemplateDay{}).Where("id = ?", day.ID).
			Updates(map[string]interface{}{
				"week_number":        day.WeekNumber,
				"day_number_in_week": day.DayNumberInWeek,
				"warmup_id":          day.WarmupID,
				"meal_plan_id":       day.MealPlanID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		// Main workout rows carry no identity of their own, replace them.
		if err := tx.Where("template_day_id = ?", day.ID).Delete(&domain.TemplateDayWorkout{}).Error; err != nil {
			return err
		}
		for i := range day.MainWorkouts {
			day.MainWorkouts[i].ID = uuid.Nil
			day.MainWorkouts[i].TemplateDayID = day.ID
		}
		if len(day.MainWorkouts) > 0 {
			if err := tx.Create(&day.MainWorkouts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresCourseRepository) DeleteTemplateDay(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_day_id = ?", id).Delete(&domain.TemplateDayWorkout{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.TemplateDay{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *postgresCourseRepository) GetTemplateDays(ctx context.Context, courseID uuid.UUID) ([]domain.TemplateDay, error) {
	var days []domain.TemplateDay
	err := r.db.WithContext(ctx).
		Preload("MainWorkouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("course_id = ?", courseID).
		Order("week_number ASC, day_number_in_week ASC").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}
