package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/jobs/debrief"
	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/types"
)

// JobService persists a JobRun row and hands the work to Temporal. The
// caller never waits for the result; the worker reports back through the
// JobRun status and a notification.
type JobService interface {
	EnqueueDebriefScore(ctx context.Context, ownerUserID, simulationID uuid.UUID) (*types.JobRun, error)
	GetByIDForUser(dbc dbctx.Context, userID, jobID uuid.UUID) (*types.JobRun, error)
}

type jobService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.JobRunRepo

	temporal          temporalsdkclient.Client
	temporalTaskQueue string
}

func NewJobService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.JobRunRepo,
	tc temporalsdkclient.Client,
	taskQueue string,
) JobService {
	return &jobService{
		db:                db,
		log:               baseLog.With("service", "JobService"),
		repo:              repo,
		temporal:          tc,
		temporalTaskQueue: strings.TrimSpace(taskQueue),
	}
}

func (s *jobService) EnqueueDebriefScore(ctx context.Context, ownerUserID, simulationID uuid.UUID) (*types.JobRun, error) {
	if ownerUserID == uuid.Nil {
		return nil, fmt.Errorf("missing owner_user_id")
	}
	if simulationID == uuid.Nil {
		return nil, fmt.Errorf("missing simulation_id")
	}
	if s.temporal == nil {
		return nil, fmt.Errorf("temporal not configured (TEMPORAL_ADDRESS)")
	}

	payload, _ := json.Marshal(map[string]any{"simulation_id": simulationID})
	entityID := simulationID
	job := &types.JobRun{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		JobType:     types.JobTypeDebriefScore,
		EntityType:  "simulation",
		EntityID:    &entityID,
		Status:      types.JobStatusQueued,
		Payload:     datatypes.JSON(payload),
	}
	if _, err := s.repo.Create(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("create job run: %w", err)
	}

	opts := temporalsdkclient.StartWorkflowOptions{
		// One workflow per simulation; a re-enqueue for the same
		// simulation dedupes on the workflow id.
		ID:        "debrief-score-" + simulationID.String(),
		TaskQueue: s.temporalTaskQueue,
	}
	input := debrief.ScoreInput{
		JobID:        job.ID,
		SimulationID: simulationID,
	}
	if _, err := s.temporal.ExecuteWorkflow(ctx, opts, debrief.WorkflowName, input); err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			s.log.Debug("Debrief workflow already running", "simulation_id", simulationID)
			return job, nil
		}
		if ferr := s.repo.MarkFailed(ctx, nil, job.ID, err.Error()); ferr != nil {
			s.log.Warn("Failed to mark job failed", "job_id", job.ID, "error", ferr)
		}
		return nil, fmt.Errorf("dispatch debrief workflow: %w", err)
	}
	return job, nil
}

func (s *jobService) GetByIDForUser(dbc dbctx.Context, userID, jobID uuid.UUID) (*types.JobRun, error) {
	job, err := s.repo.GetByID(dbc.Ctx, dbc.Tx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.OwnerUserID != userID {
		return nil, nil
	}
	return job, nil
}
