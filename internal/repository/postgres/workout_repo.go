package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresWorkoutRepository implements repository.WorkoutRepository
type postgresWorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository.
func NewWorkoutRepository(db *gorm.DB) repository.WorkoutRepository {
	return &postgresWorkoutRepository{db: db}
}

func (r *postgresWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (uuid.UUID, error) {
	if workout.Title == "" {
		return uuid.Nil, errors.New("workout requires a title")
	}
	if err := r.db.WithContext(ctx).Create(workout).Error; err != nil {
		return uuid.Nil, err
	}
	return workout.ID, nil
}

func (r *postgresWorkoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *postgresWorkoutRepository) List(ctx context.Context, kind domain.WorkoutKind) ([]domain.Workout, error) {
	var workouts []domain.Workout
	q := r.db.WithContext(ctx).Order("title ASC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *postgresWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == uuid.Nil {
		return errors.New("workout ID is required for update")
	}
	result := r.db.WithContext(ctx).Model(&domain.Workout{}).Where("id = ?", workout.ID).
		Updates(map[string]interface{}{
			"title":        workout.Title,
			"description":  workout.Description,
			"kind":         workout.Kind,
			"duration_min": workout.DurationMin,
			"video_url":    workout.VideoURL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresWorkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Workout{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
