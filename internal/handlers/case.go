package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/requestdata"
	"github.com/praxishq/praxis-backend/internal/services"
)

type CaseHandler struct {
	store  content.Store
	prereq services.PrereqService
}

func NewCaseHandler(store content.Store, prereq services.PrereqService) *CaseHandler {
	return &CaseHandler{store: store, prereq: prereq}
}

// GET /api/cases
func (h *CaseHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"cases": h.store.List()})
}

// GET /api/cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	cs, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, content.ErrCaseNotFound) {
			RespondError(c, http.StatusNotFound, apierr.CodeNotFound, err)
			return
		}
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"case": cs})
}

// GET /api/cases/:id/gate
func (h *CaseHandler) Gate(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	res, err := h.prereq.Check(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, res)
}
