package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/requestdata"
	"github.com/praxishq/praxis-backend/internal/services"
)

type ForumHandler struct {
	svc services.ForumService
}

func NewForumHandler(svc services.ForumService) *ForumHandler {
	return &ForumHandler{svc: svc}
}

// GET /api/forum/threads
func (h *ForumHandler) ListThreads(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	threads, err := h.svc.ListThreads(dbctx.New(c.Request.Context()), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"threads": threads})
}

// POST /api/forum/threads
func (h *ForumHandler) CreateThread(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	var req struct {
		CaseID string `json:"case_id"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	var caseID *string
	if trimmed := strings.TrimSpace(req.CaseID); trimmed != "" {
		caseID = &trimmed
	}
	thread, err := h.svc.CreateThread(dbctx.New(c.Request.Context()), userID, caseID, req.Title, req.Body)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"thread": thread})
}

// GET /api/forum/threads/:id/posts
func (h *ForumHandler) GetThread(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid thread id"))
		return
	}
	thread, posts, err := h.svc.GetThread(dbctx.New(c.Request.Context()), threadID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"thread": thread, "posts": posts})
}

// POST /api/forum/threads/:id/posts
func (h *ForumHandler) CreatePost(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid thread id"))
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	post, err := h.svc.CreatePost(dbctx.New(c.Request.Context()), userID, threadID, req.Body)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}
