package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/repository"
)

// postgresChatRepository implements repository.ChatRepository
type postgresChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new support chat repository.
func NewChatRepository(db *gorm.DB) repository.ChatRepository {
	return &postgresChatRepository{db: db}
}

func (r *postgresChatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) (uuid.UUID, error) {
	if message.UserID == uuid.Nil || message.Body == "" {
		return uuid.Nil, errors.New("chat message requires userId and a body")
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return uuid.Nil, err
	}
	return message.ID, nil
}

func (r *postgresChatRepository) GetThread(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *postgresChatRepository) ListThreadUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Select("user_id").
		Group("user_id").
		Order("MAX(sent_at) DESC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postgresChatRepository) MarkThreadRead(ctx context.Context, userID uuid.UUID, sender domain.ChatSender, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("user_id = ? AND sender = ? AND read_at IS NULL", userID, sender).
		Update("read_at", at).Error
}
