package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresCompletionRepository implements repository.CompletionRepository
type postgresCompletionRepository struct {
	db *gorm.DB
}

// NewCompletionRepository creates a new workout completion repository.
func NewCompletionRepository(db *gorm.DB) repository.CompletionRepository {
	return &postgresCompletionRepository{db: db}
}

func (r *postgresCompletionRepository) Create(ctx context.Context, tx *gorm.DB, completion *domain.WorkoutCompletion) (uuid.UUID, error) {
	if completion.EnrollmentID == uuid.Nil || completion.DailyPlanID == uuid.Nil {
		return uuid.Nil, errors.New("completion requires enrollmentId and dailyPlanId")
	}
	if err := on(r.db, tx).WithContext(ctx).Create(completion).Error; err != nil {
		return uuid.Nil, err
	}
	return completion.ID, nil
}

func (r *postgresCompletionRepository) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]domain.WorkoutCompletion, error) {
	var completions []domain.WorkoutCompletion
	err := on(r.db, tx).WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("completed_at ASC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *postgresCompletionRepository) GetByDailyPlanID(ctx context.Context, tx *gorm.DB, dailyPlanID uuid.UUID) (*domain.WorkoutCompletion, error) {
	var completion domain.WorkoutCompletion
	err := on(r.db, tx).WithContext(ctx).
		Where("daily_plan_id = ?", dailyPlanID).
		First(&completion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *postgresCompletionRepository) UpdateDailyPlanID(ctx context.Context, tx *gorm.DB, id, dailyPlanID uuid.UUID) error {
	result := on(r.db, tx).WithContext(ctx).
		Model(&domain.WorkoutCompletion{}).
		Where("id = ?", id).
		Update("daily_plan_id", dailyPlanID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresCompletionRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := on(r.db, tx).WithContext(ctx).Where("id = ?", id).Delete(&domain.WorkoutCompletion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresCompletionRepository) DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error {
	return on(r.db, tx).WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Delete(&domain.WorkoutCompletion{}).Error
}
