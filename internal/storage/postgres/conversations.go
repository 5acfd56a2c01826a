// ABOUTME: Conversation repository over pgx
// ABOUTME: Create, lookup by id/session, title updates, soft deactivation
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ConversationRepository persists conversation rows.
type ConversationRepository struct {
	db *DB
}

// NewConversationRepository creates the repository.
func NewConversationRepository(db *DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create starts a new conversation. A zero sessionID gets a fresh UUID so
// anonymous clients still land in a session of their own.
func (r *ConversationRepository) Create(ctx context.Context, sessionID uuid.UUID) (*models.Conversation, error) {
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}

	var conv models.Conversation
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO conversations (session_id)
		 VALUES ($1)
		 RETURNING id, session_id, COALESCE(title, ''), is_active, created_at, updated_at`,
		sessionID,
	).Scan(&conv.ID, &conv.SessionID, &conv.Title, &conv.IsActive, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conv, nil
}

// GetByID fetches a single conversation.
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, session_id, COALESCE(title, ''), is_active, created_at, updated_at
		 FROM conversations WHERE id = $1`,
		id,
	).Scan(&conv.ID, &conv.SessionID, &conv.Title, &conv.IsActive, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// GetBySession lists a session's conversations, newest first.
func (r *ConversationRepository) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Conversation, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, session_id, COALESCE(title, ''), is_active, created_at, updated_at
		 FROM conversations WHERE session_id = $1 AND is_active
		 ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.SessionID, &conv.Title, &conv.IsActive, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// UpdateTitle sets the conversation title, typically from its first message.
func (r *ConversationRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE conversations SET title = $2, updated_at = now() WHERE id = $1`,
		id, title,
	)
	if err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch bumps updated_at after new activity.
func (r *ConversationRepository) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE conversations SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a conversation.
func (r *ConversationRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE conversations SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
