package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment is a user's subscription to a course instance. At most one
// active enrollment exists per user; the enrollment service enforces that
// by deactivating prior enrollments on enroll.
type Enrollment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Course   *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	StartDate           time.Time                    `gorm:"not null" json:"startDate"`
	SelectedWorkoutDays datatypes.JSONSlice[Weekday] `json:"selectedWorkoutDays"`
	Active              bool                         `gorm:"not null;default:true;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TrainsOn reports whether the user selected the given weekday for workouts.
func (e *Enrollment) TrainsOn(wd Weekday) bool {
	return ContainsWeekday(e.SelectedWorkoutDays, wd)
}
