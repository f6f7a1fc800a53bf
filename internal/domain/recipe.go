package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a standalone recipe in the platform's nutrition section.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Ingredients string    `json:"ingredients,omitempty"`
	Calories    int       `json:"calories,omitempty"`
	PhotoKey    string    `json:"-"` // S3 object key
	Published   bool      `gorm:"not null;default:false" json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
