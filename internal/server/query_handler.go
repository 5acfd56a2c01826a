// ABOUTME: Selection query endpoint: explain a passage the user highlighted
// ABOUTME: Stateless, no conversation persistence involved
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Urooj-Fatima932/Hackathon-1-complete-book-with-chatbot/internal/models"
)

// SelectionAnswerer answers questions about a selected passage.
type SelectionAnswerer interface {
	QuerySelection(ctx context.Context, selectedText, extraContext string) (string, []models.Source, error)
}

// QueryHandler serves the selection query API.
type QueryHandler struct {
	answerer SelectionAnswerer
	log      *zap.Logger
}

// NewQueryHandler wires the handler.
func NewQueryHandler(answerer SelectionAnswerer, log *zap.Logger) *QueryHandler {
	return &QueryHandler{answerer: answerer, log: log.Named("query_handler")}
}

// RegisterRoutes attaches the query routes to the router.
func (h *QueryHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/query/selection", h.QuerySelection)
}

type selectionRequest struct {
	SelectedText string `json:"selected_text" binding:"required"`
	Context      string `json:"context"`
}

// QuerySelection answers a question about highlighted text.
func (h *QueryHandler) QuerySelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "selected_text is required"})
		return
	}

	answer, sources, err := h.answerer.QuerySelection(c.Request.Context(), req.SelectedText, req.Context)
	if err != nil {
		h.log.Error("selection query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate response"})
		return
	}
	if sources == nil {
		sources = []models.Source{}
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":  answer,
		"sources": sources,
	})
}
