package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresEnrollmentRepository implements repository.EnrollmentRepository
type postgresEnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) repository.EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) (uuid.UUID, error) {
	if enrollment.UserID == uuid.Nil || enrollment.CourseID == uuid.Nil {
		return uuid.Nil, errors.New("enrollment requires userId and courseId")
	}
	if err := on(r.db, tx).WithContext(ctx).Omit("Course").Create(enrollment).Error; err != nil {
		return uuid.Nil, err
	}
	return enrollment.ID, nil
}

func (r *postgresEnrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := on(r.db, tx).WithContext(ctx).Where("id = ?", id).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *postgresEnrollmentRepository) GetWithCourse(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := on(r.db, tx).WithContext(ctx).
		Preload("Course").
		Preload("Course.TemplateDays", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC, day_number_in_week ASC")
		}).
		Preload("Course.TemplateDays.MainWorkouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *postgresEnrollmentRepository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *postgresEnrollmentRepository) DeactivateAllForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return on(r.db, tx).WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
}

func (r *postgresEnrollmentRepository) UpdateSelectedDays(ctx context.Context, tx *gorm.DB, id uuid.UUID, days []domain.Weekday) error {
	result := on(r.db, tx).WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("id = ?", id).
		Update("selected_workout_days", datatypes.JSONSlice[domain.Weekday](days))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postgresEnrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := on(r.db, tx).WithContext(ctx).Where("id = ?", id).Delete(&domain.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
