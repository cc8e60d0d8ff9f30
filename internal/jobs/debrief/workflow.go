package debrief

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	WorkflowName  = "DebriefScoreWorkflow"
	ActivityScore = "DebriefScoreSimulation"
)

// ScoreInput identifies the JobRun row tracking the work and the completed
// simulation to score.
type ScoreInput struct {
	JobID        uuid.UUID `json:"job_id"`
	SimulationID uuid.UUID `json:"simulation_id"`
}

func ScoreWorkflow(ctx workflow.Context, in ScoreInput) error {
	if in.SimulationID == uuid.Nil {
		return fmt.Errorf("debrief: missing simulation_id")
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	return workflow.ExecuteActivity(ctx, ActivityScore, in).Get(ctx, nil)
}
