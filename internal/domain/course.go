package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseType distinguishes rolling subscriptions from fixed-length programs.
// Subscription enrollments snap their start date to the Monday of the start
// week; fixed courses begin on the raw start date.
type CourseType string

const (
	CourseTypeSubscription CourseType = "subscription"
	CourseTypeFixed        CourseType = "fixed"
)

// Course is an admin-authored training program. Its template days describe
// one full pass of the course; per-user calendars are generated from them.
type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Type        CourseType `gorm:"not null;default:'fixed'" json:"type"`

	DurationWeeks int `gorm:"not null" json:"durationWeeks"`
	// Weekday counts the user may choose from (e.g. [3,4,5]). The maximum
	// value is the binding weekly quota for main-workout template days.
	AllowedWorkoutDaysPerWeek datatypes.JSONSlice[int] `json:"allowedWorkoutDaysPerWeek"`

	Published     bool   `gorm:"not null;default:false" json:"published"`
	CoverImageKey string `json:"-"` // S3 object key, resolved to a presigned URL by the API layer

	TemplateDays []TemplateDay `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"templateDays,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// WeeklyQuota returns the number of main-workout template days each course
// week must contain: the maximum of the allowed workout-days-per-week values.
func (c *Course) WeeklyQuota() int {
	quota := 0
	for _, n := range c.AllowedWorkoutDaysPerWeek {
		if n > quota {
			quota = n
		}
	}
	return quota
}

// TemplateDay is one authored day-in-course: a warmup, zero or more ordered
// main workouts, and an optional meal plan.
type TemplateDay struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`

	WeekNumber      int `gorm:"not null" json:"weekNumber"`
	DayNumberInWeek int `gorm:"not null" json:"dayNumberInWeek"` // 1-7

	WarmupID   *uuid.UUID `gorm:"type:uuid" json:"warmupId,omitempty"`
	MealPlanID *uuid.UUID `gorm:"type:uuid" json:"mealPlanId,omitempty"`

	MainWorkouts []TemplateDayWorkout `gorm:"foreignKey:TemplateDayID;constraint:OnDelete:CASCADE" json:"mainWorkouts,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *TemplateDay) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// HasMainWorkouts reports whether this is a main-workout day (as opposed to
// a warmup-only day).
func (d *TemplateDay) HasMainWorkouts() bool {
	return len(d.MainWorkouts) > 0
}

// TemplateDayWorkout links a main workout into a template day, in order.
type TemplateDayWorkout struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateDayID uuid.UUID `gorm:"type:uuid;not null;index" json:"templateDayId"`
	WorkoutID     uuid.UUID `gorm:"type:uuid;not null" json:"workoutId"`
	Position      int       `gorm:"not null" json:"position"`
}

func (w *TemplateDayWorkout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
