package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyPlan is one generated calendar day for an enrollment. Rows are keyed
// by (enrollmentId, dayNumberInCourse) and the day numbers for an enrollment
// always form a contiguous range 1..N.
type DailyPlan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_plan_enrollment_day,priority:1" json:"enrollmentId"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`

	DayNumberInCourse int       `gorm:"not null;uniqueIndex:idx_daily_plan_enrollment_day,priority:2" json:"dayNumberInCourse"` // 1-based
	Date              time.Time `gorm:"not null" json:"date"`
	WeekNumber        int       `gorm:"not null" json:"weekNumber"`
	DayOfWeek         Weekday   `gorm:"not null" json:"dayOfWeek"`
	IsWorkoutDay      bool      `gorm:"not null" json:"isWorkoutDay"`

	WarmupID   *uuid.UUID `gorm:"type:uuid" json:"warmupId,omitempty"`
	MealPlanID *uuid.UUID `gorm:"type:uuid" json:"mealPlanId,omitempty"`

	// TemplateDayID points back at the template day this row was generated
	// from; completion realignment matches rows across regenerations with it.
	TemplateDayID uuid.UUID `gorm:"type:uuid;not null" json:"templateDayId"`

	MainWorkouts []DailyPlanWorkout `gorm:"foreignKey:DailyPlanID;constraint:OnDelete:CASCADE" json:"mainWorkouts,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *DailyPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DailyPlanWorkout is an ordered main-workout row under a daily plan. These
// carry no independent identity and are replaced wholesale on regeneration.
type DailyPlanWorkout struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DailyPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"dailyPlanId"`
	WorkoutID   uuid.UUID `gorm:"type:uuid;not null" json:"workoutId"`
	Position    int       `gorm:"not null" json:"position"`
}

func (w *DailyPlanWorkout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
