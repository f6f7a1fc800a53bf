package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresDailyPlanRepository implements repository.DailyPlanRepository
type postgresDailyPlanRepository struct {
	db *gorm.DB
}

// NewDailyPlanRepository creates a new daily plan repository.
func NewDailyPlanRepository(db *gorm.DB) repository.DailyPlanRepository {
	return &postgresDailyPlanRepository{db: db}
}

func (r *postgresDailyPlanRepository) CreateBatch(ctx context.Context, tx *gorm.DB, plans []*domain.DailyPlan) error {
	if len(plans) == 0 {
		return nil
	}
	// Nested MainWorkouts rows are created along with each plan.
	return on(r.db, tx).WithContext(ctx).Create(&plans).Error
}

func (r *postgresDailyPlanRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.DailyPlan, error) {
	var plan domain.DailyPlan
	err := on(r.db, tx).WithContext(ctx).
		Preload("MainWorkouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *postgresDailyPlanRepository) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]domain.DailyPlan, error) {
	var plans []domain.DailyPlan
	err := on(r.db, tx).WithContext(ctx).
		Preload("MainWorkouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("enrollment_id = ?", enrollmentID).
		Order("day_number_in_course ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// Upsert keys on (enrollmentId, dayNumberInCourse). An existing row keeps
// its ID so that foreign references such as completion records stay valid
// across a regeneration. Main workout rows are not touched here; callers
// replace them with ReplaceMainWorkouts.
func (r *postgresDailyPlanRepository) Upsert(ctx context.Context, tx *gorm.DB, plan *domain.DailyPlan) error {
	db := on(r.db, tx).WithContext(ctx)

	var existing domain.DailyPlan
	err := db.Where("enrollment_id = ? AND day_number_in_course = ?", plan.EnrollmentID, plan.DayNumberInCourse).
		First(&existing).Error
	switch {
	case err == nil:
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		return db.Model(&domain.DailyPlan{}).Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"user_id":         plan.UserID,
				"date":            plan.Date,
				"week_number":     plan.WeekNumber,
				"day_of_week":     plan.DayOfWeek,
				"is_workout_day":  plan.IsWorkoutDay,
				"warmup_id":       plan.WarmupID,
				"meal_plan_id":    plan.MealPlanID,
				"template_day_id": plan.TemplateDayID,
			}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Omit("MainWorkouts").Create(plan).Error
	default:
		return err
	}
}

func (r *postgresDailyPlanRepository) ReplaceMainWorkouts(ctx context.Context, tx *gorm.DB, planID uuid.UUID, workouts []domain.DailyPlanWorkout) error {
	db := on(r.db, tx).WithContext(ctx)
	if err := db.Where("daily_plan_id = ?", planID).Delete(&domain.DailyPlanWorkout{}).Error; err != nil {
		return err
	}
	if len(workouts) == 0 {
		return nil
	}
	for i := range workouts {
		workouts[i].ID = uuid.Nil
		workouts[i].DailyPlanID = planID
	}
	return db.Create(&workouts).Error
}

func (r *postgresDailyPlanRepository) DeleteByEnrollmentAndWeek(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, weekNumber int) error {
	db := on(r.db, tx).WithContext(ctx)
	return r.deleteWithWorkouts(db, db.Model(&domain.DailyPlan{}).
		Where("enrollment_id = ? AND week_number = ?", enrollmentID, weekNumber))
}

func (r *postgresDailyPlanRepository) DeleteWhereDayNumberGreaterThan(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, dayNumber int) error {
	db := on(r.db, tx).WithContext(ctx)
	return r.deleteWithWorkouts(db, db.Model(&domain.DailyPlan{}).
		Where("enrollment_id = ? AND day_number_in_course > ?", enrollmentID, dayNumber))
}

func (r *postgresDailyPlanRepository) DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error {
	db := on(r.db, tx).WithContext(ctx)
	return r.deleteWithWorkouts(db, db.Model(&domain.DailyPlan{}).
		Where("enrollment_id = ?", enrollmentID))
}

// deleteWithWorkouts removes the selected plan rows and their main-workout
// sub-rows. SQLite (used in tests) does not cascade here, so the sub-rows
// go explicitly.
func (r *postgresDailyPlanRepository) deleteWithWorkouts(db *gorm.DB, selection *gorm.DB) error {
	var ids []uuid.UUID
	if err := selection.Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := db.Where("daily_plan_id IN ?", ids).Delete(&domain.DailyPlanWorkout{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&domain.DailyPlan{}).Error
}
