package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/requestdata"
	"github.com/praxishq/praxis-backend/internal/services"
)

type SimulationHandler struct {
	svc      services.SimulationService
	debriefs repos.DebriefRepo
	jobs     services.JobService
}

func NewSimulationHandler(svc services.SimulationService, debriefs repos.DebriefRepo, jobs services.JobService) *SimulationHandler {
	return &SimulationHandler{svc: svc, debriefs: debriefs, jobs: jobs}
}

// POST /api/cases/:id/simulation
func (h *SimulationHandler) Start(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	sim, err := h.svc.Start(dbctx.New(c.Request.Context()), userID, c.Param("id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"simulation": sim})
}

// GET /api/simulations/:id
func (h *SimulationHandler) Get(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	simID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid simulation id"))
		return
	}
	sim, err := h.svc.Get(dbctx.New(c.Request.Context()), userID, simID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"simulation": sim})
}

// POST /api/simulations/:id/stages/:stageId
func (h *SimulationHandler) SubmitStage(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	simID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid simulation id"))
		return
	}
	var req struct {
		Answer json.RawMessage `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	sim, err := h.svc.SubmitStage(dbctx.New(c.Request.Context()), userID, simID, c.Param("stageId"), req.Answer)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"simulation": sim})
}

// POST /api/simulations/:id/complete
func (h *SimulationHandler) Complete(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	simID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid simulation id"))
		return
	}
	sim, err := h.svc.Complete(dbctx.New(c.Request.Context()), userID, simID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"simulation": sim})
}

// GET /api/simulations/:id/debrief
func (h *SimulationHandler) GetDebrief(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	simID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid simulation id"))
		return
	}

	// Ownership check rides on the simulation fetch.
	if _, err := h.svc.Get(dbctx.New(c.Request.Context()), userID, simID); err != nil {
		RespondServiceError(c, err)
		return
	}

	deb, err := h.debriefs.GetBySimulationID(c.Request.Context(), nil, simID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if deb == nil {
		RespondError(c, http.StatusNotFound, apierr.CodeNotFound, fmt.Errorf("debrief not ready"))
		return
	}
	RespondOK(c, gin.H{"debrief": deb})
}

// GET /api/jobs/:id
func (h *SimulationHandler) GetJob(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid job id"))
		return
	}
	job, err := h.jobs.GetByIDForUser(dbctx.New(c.Request.Context()), userID, jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if job == nil {
		RespondError(c, http.StatusNotFound, apierr.CodeNotFound, fmt.Errorf("job not found"))
		return
	}
	RespondOK(c, gin.H{"job": job})
}
