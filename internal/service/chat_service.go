package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/logger"
	"fitcourse/backend/internal/repository"
)

var ErrEmptyMessage = errors.New("chat message body cannot be empty")

// ChatService is the support chat between users and admins: one stored
// thread per user, fetched on demand.
type ChatService interface {
	SendUserMessage(ctx context.Context, userID uuid.UUID, body string) (*domain.ChatMessage, error)
	SendAdminReply(ctx context.Context, adminID, userID uuid.UUID, body string) (*domain.ChatMessage, error)
	// GetThread returns the user's thread and marks the other side's
	// messages as read.
	GetThread(ctx context.Context, userID uuid.UUID, reader domain.ChatSender) ([]domain.ChatMessage, error)
	ListThreads(ctx context.Context) ([]uuid.UUID, error)
}

// chatService implements the ChatService interface.
type chatService struct {
	messages repository.ChatRepository
	log      *logger.Logger
}

// NewChatService creates a new instance of chatService.
func NewChatService(messages repository.ChatRepository, log *logger.Logger) ChatService {
	return &chatService{
		messages: messages,
		log:      log.With("service", "ChatService"),
	}
}

func (s *chatService) SendUserMessage(ctx context.Context, userID uuid.UUID, body string) (*domain.ChatMessage, error) {
	return s.send(ctx, &domain.ChatMessage{
		UserID: userID,
		Sender: domain.ChatSenderUser,
		Body:   body,
	})
}

func (s *chatService) SendAdminReply(ctx context.Context, adminID, userID uuid.UUID, body string) (*domain.ChatMessage, error) {
	return s.send(ctx, &domain.ChatMessage{
		UserID:  userID,
		Sender:  domain.ChatSenderAdmin,
		AdminID: &adminID,
		Body:    body,
	})
}

func (s *chatService) send(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	message.Body = strings.TrimSpace(message.Body)
	if message.Body == "" {
		return nil, ErrEmptyMessage
	}
	message.SentAt = time.Now().UTC()
	if _, err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *chatService) GetThread(ctx context.Context, userID uuid.UUID, reader domain.ChatSender) ([]domain.ChatMessage, error) {
	thread, err := s.messages.GetThread(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Reading a thread marks the counterpart's messages read.
	other := domain.ChatSenderUser
	if reader == domain.ChatSenderUser {
		other = domain.ChatSenderAdmin
	}
	if err := s.messages.MarkThreadRead(ctx, userID, other, time.Now().UTC()); err != nil {
		s.log.Warn("failed to mark thread read", "userId", userID, "error", err)
	}
	return thread, nil
}

func (s *chatService) ListThreads(ctx context.Context) ([]uuid.UUID, error) {
	return s.messages.ListThreadUserIDs(ctx)
}
