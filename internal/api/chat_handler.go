package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/service"
)

// ChatHandler holds the chat service dependency.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// --- Request/Response Structs ---

type ChatMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type ChatMessageResponse struct {
	ID     string            `json:"id"`
	Sender domain.ChatSender `json:"sender"`
	Body   string            `json:"body"`
	SentAt time.Time         `json:"sentAt"`
	ReadAt *time.Time        `json:"readAt,omitempty"`
}

func mapChatMessageToResponse(m *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:     m.ID.String(),
		Sender: m.Sender,
		Body:   m.Body,
		SentAt: m.SentAt,
		ReadAt: m.ReadAt,
	}
}

func mapChatThreadToResponse(messages []domain.ChatMessage) []ChatMessageResponse {
	resp := make([]ChatMessageResponse, 0, len(messages))
	for i := range messages {
		resp = append(resp, mapChatMessageToResponse(&messages[i]))
	}
	return resp
}

// --- Handler Methods ---

// SendMessage godoc
// @Summary Send a support message
// @Description Appends a message to the authenticated user's support thread.
// @Tags Chat
// @Accept json
// @Produce json
// @Param message body ChatMessageRequest true "Message body"
// @Success 201 {object} ChatMessageResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	msg, err := h.chatService.SendUserMessage(c.Request.Context(), userID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}
	c.JSON(http.StatusCreated, mapChatMessageToResponse(msg))
}

// GetThread godoc
// @Summary Get the authenticated user's support thread
// @Description Returns the thread oldest-first and marks admin messages as read.
// @Tags Chat
// @Produce json
// @Success 200 {array} ChatMessageResponse
// @Router /chat/messages [get]
func (h *ChatHandler) GetThread(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	messages, err := h.chatService.GetThread(c.Request.Context(), userID, domain.ChatSenderUser)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load thread")
		return
	}
	c.JSON(http.StatusOK, mapChatThreadToResponse(messages))
}

// ListThreads godoc
// @Summary List user IDs with support threads (Admin)
// @Tags Chat
// @Produce json
// @Success 200 {array} string
// @Router /admin/chat/threads [get]
func (h *ChatHandler) ListThreads(c *gin.Context) {
	userIDs, err := h.chatService.ListThreads(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list threads")
		return
	}
	resp := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		resp = append(resp, id.String())
	}
	c.JSON(http.StatusOK, resp)
}

// GetThreadAsAdmin godoc
// @Summary Read a user's support thread (Admin)
// @Tags Chat
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} ChatMessageResponse
// @Router /admin/chat/threads/{userId} [get]
func (h *ChatHandler) GetThreadAsAdmin(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	messages, err := h.chatService.GetThread(c.Request.Context(), userID, domain.ChatSenderAdmin)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load thread")
		return
	}
	c.JSON(http.StatusOK, mapChatThreadToResponse(messages))
}

// ReplyToThread godoc
// @Summary Reply to a user's support thread (Admin)
// @Tags Chat
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param message body ChatMessageRequest true "Message body"
// @Success 201 {object} ChatMessageResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/chat/threads/{userId} [post]
func (h *ChatHandler) ReplyToThread(c *gin.Context) {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	msg, err := h.chatService.SendAdminReply(c.Request.Context(), adminID, userID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to send reply")
		}
		return
	}
	c.JSON(http.StatusCreated, mapChatMessageToResponse(msg))
}
