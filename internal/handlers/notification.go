package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/requestdata"
	"github.com/praxishq/praxis-backend/internal/services"
)

type NotificationHandler struct {
	svc services.NotificationService
}

func NewNotificationHandler(svc services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	notifications, err := h.svc.ListForUser(dbctx.New(c.Request.Context()), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": notifications})
}

// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid notification id"))
		return
	}
	if err := h.svc.MarkRead(dbctx.New(c.Request.Context()), userID, notifID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"read": true})
}
