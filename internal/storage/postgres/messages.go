// ABOUTME: Message repository over pgx
// ABOUTME: Stores user and assistant turns, with sources serialized as JSONB
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

// MessageRepository persists conversation messages.
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates the repository.
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateUserMessage records a user turn.
func (r *MessageRepository) CreateUserMessage(ctx context.Context, conversationID uuid.UUID, content string) (*models.Message, error) {
	return r.create(ctx, conversationID, models.RoleUser, content, nil)
}

// CreateAIMessage records an assistant turn with its cited sources.
func (r *MessageRepository) CreateAIMessage(ctx context.Context, conversationID uuid.UUID, content string, sources []models.Source) (*models.Message, error) {
	return r.create(ctx, conversationID, models.RoleAssistant, content, sources)
}

func (r *MessageRepository) create(ctx context.Context, conversationID uuid.UUID, role, content string, sources []models.Source) (*models.Message, error) {
	var sourcesJSON []byte
	if len(sources) > 0 {
		var err error
		sourcesJSON, err = json.Marshal(sources)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sources: %w", err)
		}
	}

	msg := models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Sources:        sources,
	}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, role, content, sources)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		conversationID, role, content, sourcesJSON,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &msg, nil
}

// ListByConversation returns a conversation's messages oldest first.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, conversation_id, role, content, sources, created_at
		 FROM messages WHERE conversation_id = $1
		 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		var sourcesJSON []byte
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &sourcesJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if len(sourcesJSON) > 0 {
			if err := json.Unmarshal(sourcesJSON, &msg.Sources); err != nil {
				return nil, fmt.Errorf("failed to unmarshal sources: %w", err)
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// CountByConversation reports how many turns the conversation holds.
func (r *MessageRepository) CountByConversation(ctx context.Context, conversationID uuid.UUID) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id = $1`, conversationID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}
