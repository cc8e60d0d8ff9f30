package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/requestdata"
	"github.com/praxishq/praxis-backend/internal/services"
)

type LessonHandler struct {
	svc services.LessonService
}

func NewLessonHandler(svc services.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

// GET /api/lessons
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.svc.List(dbctx.New(c.Request.Context()))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons})
}

// POST /api/lessons/:id/complete
func (h *LessonHandler) Complete(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid lesson id"))
		return
	}
	completion, err := h.svc.CompleteForUser(dbctx.New(c.Request.Context()), userID, lessonID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"completion": completion})
}

// GET /api/lessons/completions
func (h *LessonHandler) ListCompletions(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	completions, err := h.svc.ListCompletionsForUser(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"completions": completions})
}
