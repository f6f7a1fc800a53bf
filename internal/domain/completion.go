package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutCompletion records that the user finished the workouts of one daily
// plan. Completions survive schedule changes via realignment: when a calendar
// is regenerated the completion is kept, remapped to the day now carrying the
// same template day, or discarded.
type WorkoutCompletion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	EnrollmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"enrollmentId"`
	DailyPlanID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"dailyPlanId"`
	CompletedAt  time.Time `gorm:"not null" json:"completedAt"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c *WorkoutCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
