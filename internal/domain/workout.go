package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutKind separates warmups from main workouts in the library.
type WorkoutKind string

const (
	WorkoutKindWarmup WorkoutKind = "warmup"
	WorkoutKindMain   WorkoutKind = "main"
)

// Workout is a single workout definition in the admin-authored library.
// Template days reference workouts by ID, both as warmups and main workouts.
type Workout struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description,omitempty"`
	Kind        WorkoutKind `gorm:"not null;default:'main'" json:"kind"`
	DurationMin int         `json:"durationMin,omitempty"`
	VideoURL    string      `json:"videoUrl,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// MealPlan is a day-level nutrition plan optionally attached to a template day.
type MealPlan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (m *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
