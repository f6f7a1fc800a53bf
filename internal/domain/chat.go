package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatSender marks which side of a support thread authored a message.
type ChatSender string

const (
	ChatSenderUser  ChatSender = "user"
	ChatSenderAdmin ChatSender = "admin"
)

// ChatMessage is one message in a user's support thread. Threads are keyed
// by the user; there is no realtime transport, messages are stored and
// fetched.
type ChatMessage struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	Sender  ChatSender `gorm:"not null" json:"sender"`
	Body    string     `gorm:"not null" json:"body"`
	ReadAt  *time.Time `json:"readAt,omitempty"`
	SentAt  time.Time  `gorm:"not null" json:"sentAt"`
	AdminID *uuid.UUID `gorm:"type:uuid" json:"adminId,omitempty"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
