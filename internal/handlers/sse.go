package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/realtime"
	"github.com/praxishq/praxis-backend/internal/requestdata"
)

type SSEHandler struct {
	hub *realtime.SSEHub
}

func NewSSEHandler(hub *realtime.SSEHub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// GET /sse/stream
//
// Each authenticated user gets a private channel keyed by their user id;
// simulation and notification pushes are broadcast there.
func (h *SSEHandler) Stream(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	if userID == uuid.Nil {
		RespondError(c, http.StatusForbidden, apierr.CodeForbidden, fmt.Errorf("no authenticated user"))
		return
	}

	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, userID.String())
	defer h.hub.RemoveClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
