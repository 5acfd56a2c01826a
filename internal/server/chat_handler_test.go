// ABOUTME: Tests for the chat HTTP handlers
// ABOUTME: gin + httptest with fake stores and a fake answerer
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/storage/postgres"
)

type fakeAnswerer struct {
	answer  string
	sources []models.Source
	err     error
}

func (f *fakeAnswerer) Answer(ctx context.Context, userMessage string) (string, []models.Source, error) {
	return f.answer, f.sources, f.err
}

type fakeConversations struct {
	conversations map[uuid.UUID]*models.Conversation
	titles        map[uuid.UUID]string
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{
		conversations: map[uuid.UUID]*models.Conversation{},
		titles:        map[uuid.UUID]string{},
	}
}

func (f *fakeConversations) Create(ctx context.Context, sessionID uuid.UUID) (*models.Conversation, error) {
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}
	conv := &models.Conversation{
		ID:        uuid.New(),
		SessionID: sessionID,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.conversations[conv.ID] = conv
	return conv, nil
}

func (f *fakeConversations) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return conv, nil
}

func (f *fakeConversations) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	f.titles[id] = title
	return nil
}

func (f *fakeConversations) Touch(ctx context.Context, id uuid.UUID) error { return nil }

type fakeMessages struct {
	saved []models.Message
}

func (f *fakeMessages) CreateUserMessage(ctx context.Context, conversationID uuid.UUID, content string) (*models.Message, error) {
	msg := models.Message{ID: uuid.New(), ConversationID: conversationID, Role: models.RoleUser, Content: content}
	f.saved = append(f.saved, msg)
	return &msg, nil
}

func (f *fakeMessages) CreateAIMessage(ctx context.Context, conversationID uuid.UUID, content string, sources []models.Source) (*models.Message, error) {
	msg := models.Message{ID: uuid.New(), ConversationID: conversationID, Role: models.RoleAssistant, Content: content, Sources: sources}
	f.saved = append(f.saved, msg)
	return &msg, nil
}

func (f *fakeMessages) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.saved {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestRouter(answerer *fakeAnswerer, convs *fakeConversations, msgs *fakeMessages) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewChatHandler(answerer, convs, msgs, zap.NewNop()).RegisterRoutes(r)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartConversation(t *testing.T) {
	r := newTestRouter(&fakeAnswerer{}, newFakeConversations(), &fakeMessages{})

	w := postJSON(r, "/api/chat/start", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp["conversation_id"])
	assert.NoError(t, err)
	_, err = uuid.Parse(resp["session_id"])
	assert.NoError(t, err)
}

func TestStartConversationKeepsSession(t *testing.T) {
	r := newTestRouter(&fakeAnswerer{}, newFakeConversations(), &fakeMessages{})
	session := uuid.New()

	w := postJSON(r, "/api/chat/start", gin.H{"session_id": session.String()})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, session.String(), resp["session_id"])
}

func TestStartConversationRejectsBadSession(t *testing.T) {
	r := newTestRouter(&fakeAnswerer{}, newFakeConversations(), &fakeMessages{})
	w := postJSON(r, "/api/chat/start", gin.H{"session_id": "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageStreamsAnswerAndPersistsTurns(t *testing.T) {
	answerer := &fakeAnswerer{
		answer:  "Photosynthesis converts light into chemical energy.",
		sources: []models.Source{{ID: "ch1_0", RelevanceScore: 0.9}},
	}
	convs := newFakeConversations()
	msgs := &fakeMessages{}
	r := newTestRouter(answerer, convs, msgs)

	conv, err := convs.Create(context.Background(), uuid.Nil)
	require.NoError(t, err)

	w := postJSON(r, "/api/chat/"+conv.ID.String()+"/message", gin.H{"message": "Explain photosynthesis"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, answerer.answer, w.Body.String(), "full answer arrives as the stream body")

	require.Len(t, msgs.saved, 2)
	assert.Equal(t, models.RoleUser, msgs.saved[0].Role)
	assert.Equal(t, "Explain photosynthesis", msgs.saved[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs.saved[1].Role)
	assert.Equal(t, answerer.answer, msgs.saved[1].Content)
	require.Len(t, msgs.saved[1].Sources, 1)

	assert.Equal(t, "Explain photosynthesis", convs.titles[conv.ID], "first message becomes the title")
}

func TestSendMessageInvalidConversationID(t *testing.T) {
	r := newTestRouter(&fakeAnswerer{}, newFakeConversations(), &fakeMessages{})
	w := postJSON(r, "/api/chat/not-a-uuid/message", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	r := newTestRouter(&fakeAnswerer{}, newFakeConversations(), &fakeMessages{})
	w := postJSON(r, "/api/chat/"+uuid.NewString()+"/message", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessageRequiresMessage(t *testing.T) {
	convs := newFakeConversations()
	conv, _ := convs.Create(context.Background(), uuid.Nil)
	r := newTestRouter(&fakeAnswerer{}, convs, &fakeMessages{})

	w := postJSON(r, "/api/chat/"+conv.ID.String()+"/message", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageAnswerErrorReturns500(t *testing.T) {
	convs := newFakeConversations()
	conv, _ := convs.Create(context.Background(), uuid.Nil)
	msgs := &fakeMessages{}
	r := newTestRouter(&fakeAnswerer{err: errors.New("provider down")}, convs, msgs)

	w := postJSON(r, "/api/chat/"+conv.ID.String()+"/message", gin.H{"message": "question"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, msgs.saved, 1, "user turn is kept even when the answer fails")
}

func TestListMessages(t *testing.T) {
	convs := newFakeConversations()
	conv, _ := convs.Create(context.Background(), uuid.Nil)
	msgs := &fakeMessages{}
	_, _ = msgs.CreateUserMessage(context.Background(), conv.ID, "hello")
	_, _ = msgs.CreateAIMessage(context.Background(), conv.ID, "Hello! 👋", nil)
	r := newTestRouter(&fakeAnswerer{}, convs, msgs)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/"+conv.ID.String()+"/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, models.RoleUser, resp.Messages[0].Role)
}

func TestQuerySelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewQueryHandler(&fakeSelectionAnswerer{answer: "about light reactions"}, zap.NewNop()).RegisterRoutes(r)

	w := postJSON(r, "/api/query/selection", gin.H{"selected_text": "light reactions", "context": "chapter 1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Answer  string          `json:"answer"`
		Sources []models.Source `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "about light reactions", resp.Answer)
	assert.NotNil(t, resp.Sources)
}

func TestQuerySelectionRequiresText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewQueryHandler(&fakeSelectionAnswerer{}, zap.NewNop()).RegisterRoutes(r)

	w := postJSON(r, "/api/query/selection", gin.H{"context": "chapter 1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeSelectionAnswerer struct {
	answer string
	err    error
}

func (f *fakeSelectionAnswerer) QuerySelection(ctx context.Context, selectedText, extraContext string) (string, []models.Source, error) {
	return f.answer, nil, f.err
}
