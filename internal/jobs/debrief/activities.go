package debrief

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/types"
)

// Notifier is the slice of the realtime notifier the worker needs. Satisfied
// by services.SimulationNotifier.
type Notifier interface {
	DebriefReady(userID uuid.UUID, sim *types.Simulation, debrief *types.Debrief)
	NotificationCreated(userID uuid.UUID, n *types.Notification)
}

type Activities struct {
	Log           *logger.Logger
	DB            *gorm.DB
	Jobs          repos.JobRunRepo
	Simulations   repos.SimulationRepo
	Debriefs      repos.DebriefRepo
	Notifications repos.NotificationRepo
	Content       content.Store
	Notify        Notifier
}

// ScoreSimulation loads the completed simulation, scores its submitted
// answers against the case's decision points, and upserts the debrief.
// Reruns for the same simulation replace the previous debrief.
func (a *Activities) ScoreSimulation(ctx context.Context, in ScoreInput) error {
	if a == nil || a.DB == nil || a.Jobs == nil || a.Simulations == nil || a.Debriefs == nil || a.Content == nil {
		return fmt.Errorf("debrief: activity not configured")
	}
	if in.SimulationID == uuid.Nil {
		return fmt.Errorf("debrief: missing simulation_id")
	}

	stopHB := a.startHeartbeat(ctx)
	defer stopHB()

	if in.JobID != uuid.Nil {
		if err := a.Jobs.MarkRunning(ctx, nil, in.JobID); err != nil {
			a.Log.Warn("Failed to mark job running", "job_id", in.JobID, "error", err)
		}
	}

	sim, err := a.Simulations.GetByID(ctx, nil, in.SimulationID)
	if err != nil {
		return a.fail(ctx, in.JobID, fmt.Errorf("load simulation: %w", err))
	}
	if sim == nil {
		return a.fail(ctx, in.JobID, fmt.Errorf("simulation %s not found", in.SimulationID))
	}
	if sim.Status != types.SimulationStatusCompleted {
		return a.fail(ctx, in.JobID, fmt.Errorf("simulation %s is not completed", in.SimulationID))
	}

	c, err := a.Content.Get(sim.CaseID)
	if err != nil {
		return a.fail(ctx, in.JobID, fmt.Errorf("load case %s: %w", sim.CaseID, err))
	}

	st, err := types.DecodeSimulationState(sim.State)
	if err != nil {
		return a.fail(ctx, in.JobID, fmt.Errorf("decode simulation state: %w", err))
	}

	score, summary := Score(c, st)
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return a.fail(ctx, in.JobID, fmt.Errorf("encode summary: %w", err))
	}

	deb := &types.Debrief{
		ID:           uuid.New(),
		SimulationID: sim.ID,
		UserID:       sim.UserID,
		CaseID:       sim.CaseID,
		Score:        score,
		Summary:      datatypes.JSON(summaryJSON),
	}
	if err := a.Debriefs.Upsert(ctx, nil, deb); err != nil {
		return a.fail(ctx, in.JobID, fmt.Errorf("upsert debrief: %w", err))
	}

	if in.JobID != uuid.Nil {
		if err := a.Jobs.MarkDone(ctx, nil, in.JobID); err != nil {
			a.Log.Warn("Failed to mark job done", "job_id", in.JobID, "error", err)
		}
	}

	a.announce(ctx, sim, c, deb)
	return nil
}

// announce is best-effort: a lost notification never fails the job.
func (a *Activities) announce(ctx context.Context, sim *types.Simulation, c *content.Case, deb *types.Debrief) {
	if a.Notifications != nil {
		n := &types.Notification{
			ID:      uuid.New(),
			UserID:  sim.UserID,
			Type:    types.NotificationTypeDebriefReady,
			Title:   "Debrief ready",
			Message: fmt.Sprintf("Your debrief for %q is ready.", c.Title),
			Link:    fmt.Sprintf("/cases/%s/debrief", sim.CaseID),
		}
		if _, err := a.Notifications.Create(ctx, nil, n); err != nil {
			a.Log.Warn("Failed to create debrief notification", "simulation_id", sim.ID, "error", err)
		} else if a.Notify != nil {
			a.Notify.NotificationCreated(sim.UserID, n)
		}
	}
	if a.Notify != nil {
		a.Notify.DebriefReady(sim.UserID, sim, deb)
	}
}

func (a *Activities) fail(ctx context.Context, jobID uuid.UUID, err error) error {
	if jobID != uuid.Nil {
		if merr := a.Jobs.MarkFailed(ctx, nil, jobID, err.Error()); merr != nil {
			a.Log.Warn("Failed to mark job failed", "job_id", jobID, "error", merr)
		}
	}
	return err
}

func (a *Activities) startHeartbeat(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		tick := time.NewTicker(10 * time.Second)
		defer tick.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-tick.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
