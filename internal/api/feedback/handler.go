package feedback

import (
	"errors"
	"net/http"

	"saas-api/database"
	"saas-api/internal/app/deps"
	"saas-api/internal/app/http/middleware"
	"saas-api/internal/domain/access"
	"saas-api/internal/domain/feedback"
	"saas-api/internal/infra/events"
	"saas-api/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createRequest struct {
	Content string `json:"content"`
}

// CreateFeedback is open to anonymous callers.
func CreateFeedback(c *gin.Context) {
	var body createRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fb, err := feedback.Create(c.Request.Context(), database.DB, body.Content)
	switch {
	case errors.Is(err, feedback.ErrEmptyContent), errors.Is(err, feedback.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create feedback"})
		return
	}

	var submittedBy uint
	if u, ok := access.UserOf(middleware.PrincipalFrom(c)); ok {
		submittedBy = u.ID
	}
	logger.Get().Info("feedback received", zap.String("id", fb.ID), zap.Uint("user_id", submittedBy))

	events.PublishAsync(deps.Events, events.Event{
		Type: events.TypeFeedbackCreated,
		Key:  fb.ID,
		Data: gin.H{"id": fb.ID, "created_at": fb.CreatedAt, "length": len(fb.Content)},
	})

	c.JSON(http.StatusCreated, gin.H{"id": fb.ID, "created_at": fb.CreatedAt})
}
