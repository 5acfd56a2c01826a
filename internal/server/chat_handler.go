// ABOUTME: Chat endpoints: start conversation, send message, list history
// ABOUTME: Responses stream back in small chunks for a typewriter effect
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/storage/postgres"
)

const (
	streamChunkRunes = 3
	streamChunkDelay = 2 * time.Millisecond
	titleMaxRunes    = 60
)

// Answerer produces a chatbot response for a user message.
type Answerer interface {
	Answer(ctx context.Context, userMessage string) (string, []models.Source, error)
}

// ConversationStore is the slice of conversation persistence the handler uses.
type ConversationStore interface {
	Create(ctx context.Context, sessionID uuid.UUID) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	Touch(ctx context.Context, id uuid.UUID) error
}

// MessageStore is the slice of message persistence the handler uses.
type MessageStore interface {
	CreateUserMessage(ctx context.Context, conversationID uuid.UUID, content string) (*models.Message, error)
	CreateAIMessage(ctx context.Context, conversationID uuid.UUID, content string, sources []models.Source) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
}

// ChatHandler serves the conversation API.
type ChatHandler struct {
	answerer      Answerer
	conversations ConversationStore
	messages      MessageStore
	log           *zap.Logger
}

// NewChatHandler wires the handler's dependencies.
func NewChatHandler(answerer Answerer, conversations ConversationStore, messages MessageStore, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		answerer:      answerer,
		conversations: conversations,
		messages:      messages,
		log:           log.Named("chat_handler"),
	}
}

// RegisterRoutes attaches the chat routes to the router.
func (h *ChatHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/chat")
	api.POST("/start", h.StartConversation)
	api.POST("/:conversation_id/message", h.SendMessage)
	api.GET("/:conversation_id/messages", h.ListMessages)
}

type startConversationRequest struct {
	SessionID string `json:"session_id"`
}

// StartConversation creates a new conversation, minting a session if the
// client did not bring one.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req startConversationRequest
	_ = c.ShouldBindJSON(&req)

	sessionID := uuid.Nil
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
			return
		}
		sessionID = parsed
	}

	conv, err := h.conversations.Create(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error("failed to create conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conv.ID.String(),
		"session_id":      conv.SessionID.String(),
	})
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage persists the user turn, answers it, streams the answer back in
// small chunks, and persists the assistant turn once the stream completes.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	convID, ok := h.parseConversationID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx := c.Request.Context()
	conv, err := h.conversations.GetByID(ctx, convID)
	if err == postgres.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to load conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}

	if _, err := h.messages.CreateUserMessage(ctx, convID, req.Message); err != nil {
		h.log.Error("failed to save user message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}
	if conv.Title == "" {
		if err := h.conversations.UpdateTitle(ctx, convID, titleFromMessage(req.Message)); err != nil {
			h.log.Warn("failed to set conversation title", zap.Error(err))
		}
	}

	answer, sources, err := h.answerer.Answer(ctx, req.Message)
	if err != nil {
		h.log.Error("failed to generate answer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate response"})
		return
	}

	h.streamText(c, answer)

	if _, err := h.messages.CreateAIMessage(ctx, convID, answer, sources); err != nil {
		h.log.Error("failed to save assistant message", zap.Error(err))
	}
	if err := h.conversations.Touch(ctx, convID); err != nil {
		h.log.Warn("failed to touch conversation", zap.Error(err))
	}
}

// ListMessages returns the conversation history oldest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	convID, ok := h.parseConversationID(c)
	if !ok {
		return
	}

	msgs, err := h.messages.ListByConversation(c.Request.Context(), convID)
	if err != nil {
		h.log.Error("failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) parseConversationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation_id"})
		return uuid.Nil, false
	}
	return id, true
}

// streamText writes the answer a few runes at a time with short pauses so
// clients can render it as it arrives. The full text is already generated;
// only delivery is incremental.
func (h *ChatHandler) streamText(c *gin.Context, text string) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	runes := []rune(text)
	for i := 0; i < len(runes); i += streamChunkRunes {
		end := i + streamChunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		if _, err := c.Writer.WriteString(string(runes[i:end])); err != nil {
			return
		}
		c.Writer.Flush()
		time.Sleep(streamChunkDelay)
	}
}

func titleFromMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= titleMaxRunes {
		return msg
	}
	return string(runes[:titleMaxRunes]) + "..."
}
