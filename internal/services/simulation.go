package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/types"
)

// SimulationService advances a simulation through its case's decision
// points. All mutations run inside a transaction holding a row lock on the
// simulation, so concurrent submissions from multiple tabs serialize
// instead of corrupting the state blob.
type SimulationService interface {
	Start(dbc dbctx.Context, userID uuid.UUID, caseID string) (*types.Simulation, error)
	Get(dbc dbctx.Context, userID, simulationID uuid.UUID) (*types.Simulation, error)
	SubmitStage(dbc dbctx.Context, userID, simulationID uuid.UUID, stageID string, answer json.RawMessage) (*types.Simulation, error)
	Complete(dbc dbctx.Context, userID, simulationID uuid.UUID) (*types.Simulation, error)
}

type simulationService struct {
	db         *gorm.DB
	log        *logger.Logger
	cases      content.Store
	simRepo    repos.SimulationRepo
	eventRepo  repos.UserEventRepo
	prereq     PrereqService
	completion CompletionService
	notify     SimulationNotifier
}

func NewSimulationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cases content.Store,
	simRepo repos.SimulationRepo,
	eventRepo repos.UserEventRepo,
	prereq PrereqService,
	completion CompletionService,
	notify SimulationNotifier,
) SimulationService {
	return &simulationService{
		db:         db,
		log:        baseLog.With("service", "SimulationService"),
		cases:      cases,
		simRepo:    simRepo,
		eventRepo:  eventRepo,
		prereq:     prereq,
		completion: completion,
		notify:     notify,
	}
}

func (s *simulationService) inTx(dbc dbctx.Context, fn func(tx *gorm.DB) error) error {
	if dbc.Tx != nil {
		return fn(dbc.Tx)
	}
	if s.db != nil {
		return s.db.WithContext(dbc.Ctx).Transaction(fn)
	}
	return fn(nil)
}

// Start is create-or-fetch: a second call for the same (user, case) pair
// returns the existing simulation, completed or not.
func (s *simulationService) Start(dbc dbctx.Context, userID uuid.UUID, caseID string) (*types.Simulation, error) {
	c, err := s.getCase(caseID)
	if err != nil {
		return nil, err
	}

	gate, err := s.prereq.Check(dbc.Ctx, userID, caseID)
	if err != nil {
		return nil, err
	}
	if !gate.Passed {
		return nil, apierr.Forbidden(fmt.Errorf("prerequisite lessons incomplete: %v", gate.MissingLessons))
	}

	var sim *types.Simulation
	created := false
	err = s.inTx(dbc, func(tx *gorm.DB) error {
		existing, err := s.simRepo.GetByUserAndCase(dbc.Ctx, tx, userID, caseID)
		if err != nil {
			return err
		}
		if existing != nil {
			sim = existing
			return nil
		}

		state := types.NewSimulationState(c.FirstStageID())
		state.AppendEvent(types.SimulationEventStarted, map[string]any{"case_id": caseID})
		raw, err := state.Encode()
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		row := &types.Simulation{
			ID:     uuid.New(),
			UserID: userID,
			CaseID: caseID,
			Status: types.SimulationStatusInProgress,
			State:  raw,
		}
		if _, err := s.simRepo.Create(dbc.Ctx, tx, row); err != nil {
			// Lost a race on the unique (user_id, case_id) index; the row
			// that beat us is the one we should hand back.
			if concurrent, ferr := s.simRepo.GetByUserAndCase(dbc.Ctx, tx, userID, caseID); ferr == nil && concurrent != nil {
				sim = concurrent
				return nil
			}
			return err
		}
		sim = row
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.recordUserEvent(dbc, userID, sim.ID, types.SimulationEventStarted, map[string]any{"case_id": caseID})
		s.notify.SimulationStarted(userID, sim)
	}
	return sim, nil
}

func (s *simulationService) Get(dbc dbctx.Context, userID, simulationID uuid.UUID) (*types.Simulation, error) {
	sim, err := s.simRepo.GetByID(dbc.Ctx, dbc.Tx, simulationID)
	if err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, apierr.NotFound(fmt.Errorf("simulation %s not found", simulationID))
	}
	if sim.UserID != userID {
		return nil, apierr.Forbidden(fmt.Errorf("simulation %s is not owned by caller", simulationID))
	}
	return sim, nil
}

func (s *simulationService) SubmitStage(dbc dbctx.Context, userID, simulationID uuid.UUID, stageID string, answer json.RawMessage) (*types.Simulation, error) {
	var sim *types.Simulation
	err := s.inTx(dbc, func(tx *gorm.DB) error {
		locked, err := s.lockOwned(dbc, tx, userID, simulationID)
		if err != nil {
			return err
		}
		if locked.Status == types.SimulationStatusCompleted {
			return apierr.AlreadyCompleted(fmt.Errorf("simulation %s is completed", simulationID))
		}

		c, err := s.getCase(locked.CaseID)
		if err != nil {
			return err
		}
		if !c.HasStage(stageID) {
			return apierr.InvalidStage(fmt.Errorf("stage %q is not a decision point of case %q", stageID, c.ID))
		}

		state, err := types.DecodeSimulationState(locked.State)
		if err != nil {
			return fmt.Errorf("decode state: %w", err)
		}

		// Resubmission of an answered stage overwrites it; last write wins.
		state.StageStates[stageID] = types.StageState{
			Answer:      answer,
			CompletedAt: time.Now().UTC(),
		}
		state.AppendEvent(types.SimulationEventStageSubmitted, map[string]any{"stage_id": stageID})

		// Only advance the cursor when the submitted stage was the current
		// one; out-of-order submissions are recorded without moving it.
		if state.CurrentStageID != nil && *state.CurrentStageID == stageID {
			if next := c.NextStageAfter(stageID); next != "" {
				state.CurrentStageID = &next
			} else {
				state.CurrentStageID = nil
			}
		}

		raw, err := state.Encode()
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		locked.State = raw
		if err := s.simRepo.UpdateState(dbc.Ctx, tx, locked); err != nil {
			return err
		}
		sim = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordUserEvent(dbc, userID, sim.ID, types.SimulationEventStageSubmitted, map[string]any{"stage_id": stageID})
	return sim, nil
}

func (s *simulationService) Complete(dbc dbctx.Context, userID, simulationID uuid.UUID) (*types.Simulation, error) {
	var (
		sim *types.Simulation
		c   *content.Case
	)
	err := s.inTx(dbc, func(tx *gorm.DB) error {
		locked, err := s.lockOwned(dbc, tx, userID, simulationID)
		if err != nil {
			return err
		}
		if locked.Status == types.SimulationStatusCompleted {
			return apierr.AlreadyCompleted(fmt.Errorf("simulation %s is already completed", simulationID))
		}

		c, err = s.getCase(locked.CaseID)
		if err != nil {
			return err
		}

		state, err := types.DecodeSimulationState(locked.State)
		if err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		if missing := missingStages(c, state); len(missing) > 0 {
			return apierr.Validation(fmt.Errorf("decision points not yet answered: %v", missing))
		}

		now := time.Now().UTC()
		state.AppendEvent(types.SimulationEventCompleted, nil)
		state.CurrentStageID = nil
		raw, err := state.Encode()
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		locked.State = raw
		locked.Status = types.SimulationStatusCompleted
		locked.CompletedAt = &now
		if err := s.simRepo.UpdateState(dbc.Ctx, tx, locked); err != nil {
			return err
		}
		sim = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordUserEvent(dbc, userID, sim.ID, types.SimulationEventCompleted, map[string]any{"case_id": sim.CaseID})

	// Only the request that performed the in_progress -> completed
	// transition reaches this point, so the trigger fires once per
	// completion. A crash between the commit above and here loses the side
	// effects; that gap is accepted.
	s.completion.Fire(dbc.Ctx, sim, c)

	return sim, nil
}

// lockOwned fetches the simulation under a FOR UPDATE lock and enforces
// ownership.
func (s *simulationService) lockOwned(dbc dbctx.Context, tx *gorm.DB, userID, simulationID uuid.UUID) (*types.Simulation, error) {
	sim, err := s.simRepo.GetByIDForUpdate(dbc.Ctx, tx, simulationID)
	if err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, apierr.NotFound(fmt.Errorf("simulation %s not found", simulationID))
	}
	if sim.UserID != userID {
		return nil, apierr.Forbidden(fmt.Errorf("simulation %s is not owned by caller", simulationID))
	}
	return sim, nil
}

func (s *simulationService) getCase(caseID string) (*content.Case, error) {
	c, err := s.cases.Get(caseID)
	if err != nil {
		if err == content.ErrCaseNotFound {
			return nil, apierr.NotFound(fmt.Errorf("case %q not found", caseID))
		}
		return nil, err
	}
	return c, nil
}

func (s *simulationService) recordUserEvent(dbc dbctx.Context, userID, simulationID uuid.UUID, eventType string, data map[string]any) {
	if s.eventRepo == nil {
		return
	}
	var raw datatypes.JSON
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = datatypes.JSON(b)
		}
	}
	simID := simulationID
	row := &types.UserEvent{
		ID:           uuid.New(),
		UserID:       userID,
		SimulationID: &simID,
		Type:         eventType,
		Data:         raw,
	}
	if _, err := s.eventRepo.Create(dbc.Ctx, nil, []*types.UserEvent{row}); err != nil {
		s.log.Warn("Failed to record user event", "event_type", eventType, "error", err)
	}
}

func missingStages(c *content.Case, state *types.SimulationState) []string {
	var missing []string
	for _, id := range c.StageIDs() {
		if _, ok := state.StageStates[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
