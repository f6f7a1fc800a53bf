package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a platform account (either an Admin or a regular User).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // Should be unique
	PasswordHash string    `gorm:"not null" json:"-"`                 // Never expose this via JSON
	Role         Role      `gorm:"not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
