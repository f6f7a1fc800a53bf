package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
)

// ConnectDB establishes the GORM connection to Postgres.
func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every domain model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Workout{},
		&domain.MealPlan{},
		&domain.Course{},
		&domain.TemplateDay{},
		&domain.TemplateDayWorkout{},
		&domain.Enrollment{},
		&domain.DailyPlan{},
		&domain.DailyPlanWorkout{},
		&domain.WorkoutCompletion{},
		&domain.Recipe{},
		&domain.ChatMessage{},
	)
}

// on returns the handle repository methods should run on: the caller's
// transaction when one was supplied, the base connection otherwise.
func on(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
