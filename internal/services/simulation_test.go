package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/types"
)

type simFixture struct {
	svc      SimulationService
	simRepo  *fakeSimulationRepo
	events   *fakeUserEventRepo
	trigger  *fakeCompletionTrigger
	notifier *fakeSimNotifier
	userID   uuid.UUID
	dbc      dbctx.Context
}

func newSimFixture(t *testing.T, cases ...*content.Case) *simFixture {
	t.Helper()
	if len(cases) == 0 {
		cases = []*content.Case{crisisCase()}
	}
	f := &simFixture{
		simRepo:  newFakeSimulationRepo(),
		events:   &fakeUserEventRepo{},
		trigger:  &fakeCompletionTrigger{},
		notifier: &fakeSimNotifier{},
		userID:   uuid.New(),
		dbc:      dbctx.Context{Ctx: context.Background()},
	}
	f.svc = NewSimulationService(
		nil,
		testLogger(t),
		testStore(t, cases...),
		f.simRepo,
		f.events,
		alwaysPassGate{},
		f.trigger,
		f.notifier,
	)
	return f
}

func (f *simFixture) mustStart(t *testing.T, caseID string) *types.Simulation {
	t.Helper()
	sim, err := f.svc.Start(f.dbc, f.userID, caseID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return sim
}

func (f *simFixture) mustSubmit(t *testing.T, simID uuid.UUID, stageID, answer string) *types.Simulation {
	t.Helper()
	sim, err := f.svc.SubmitStage(f.dbc, f.userID, simID, stageID, json.RawMessage(answer))
	if err != nil {
		t.Fatalf("SubmitStage(%s): %v", stageID, err)
	}
	return sim
}

func decodeState(t *testing.T, sim *types.Simulation) *types.SimulationState {
	t.Helper()
	st, err := types.DecodeSimulationState(sim.State)
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestStartCreatesSimulation(t *testing.T) {
	f := newSimFixture(t)

	sim := f.mustStart(t, "unit-economics-crisis")
	if sim.Status != types.SimulationStatusInProgress {
		t.Fatalf("status = %q, want in_progress", sim.Status)
	}

	st := decodeState(t, sim)
	if st.CurrentStageID == nil || *st.CurrentStageID != "d1" {
		t.Fatalf("current stage = %v, want d1", st.CurrentStageID)
	}
	if len(st.EventLog) != 1 || st.EventLog[0].Type != types.SimulationEventStarted {
		t.Fatalf("event log = %+v, want single simulation_started", st.EventLog)
	}
	if f.notifier.startedCount() != 1 {
		t.Fatalf("started notifications = %d, want 1", f.notifier.startedCount())
	}
	if n := f.events.countType(types.SimulationEventStarted); n != 1 {
		t.Fatalf("started user events = %d, want 1", n)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	f := newSimFixture(t)

	first := f.mustStart(t, "unit-economics-crisis")
	f.mustSubmit(t, first.ID, "d1", `{"choice":"cut_cac"}`)

	second := f.mustStart(t, "unit-economics-crisis")
	if second.ID != first.ID {
		t.Fatalf("second Start returned %s, want existing %s", second.ID, first.ID)
	}
	st := decodeState(t, second)
	if _, ok := st.StageStates["d1"]; !ok {
		t.Fatalf("existing progress lost on repeat Start")
	}
	if f.notifier.startedCount() != 1 {
		t.Fatalf("started notifications = %d, want 1", f.notifier.startedCount())
	}
}

func TestStartLosingRaceReturnsWinner(t *testing.T) {
	f := newSimFixture(t)

	winner := &types.Simulation{
		ID:     uuid.New(),
		UserID: f.userID,
		CaseID: "unit-economics-crisis",
		Status: types.SimulationStatusInProgress,
	}
	f.simRepo.beforeCreate = func() { f.simRepo.insert(winner) }

	sim := f.mustStart(t, "unit-economics-crisis")
	if sim.ID != winner.ID {
		t.Fatalf("lost race should return winning row, got %s want %s", sim.ID, winner.ID)
	}
	if f.notifier.startedCount() != 0 {
		t.Fatalf("losing request must not announce a start")
	}
}

func TestStartUnknownCase(t *testing.T) {
	f := newSimFixture(t)
	if _, err := f.svc.Start(f.dbc, f.userID, "no-such-case"); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestStartBlockedByGate(t *testing.T) {
	f := newSimFixture(t)
	lessons := &fakeLessonRepo{}
	completions := &fakeLessonCompletionRepo{}
	gate := NewPrereqService(nil, testLogger(t), testStore(t, crisisCase()), lessons, completions)

	f.svc = NewSimulationService(nil, testLogger(t), testStore(t, crisisCase()),
		f.simRepo, f.events, gate, f.trigger, f.notifier)

	_, err := f.svc.Start(f.dbc, f.userID, "unit-economics-crisis")
	if !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if existing, _ := f.simRepo.GetByUserAndCase(context.Background(), nil, f.userID, "unit-economics-crisis"); existing != nil {
		t.Fatalf("blocked start must not create a simulation")
	}
}

func TestSubmitStageAdvancesCursor(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")

	sim = f.mustSubmit(t, sim.ID, "d1", `{"choice":"cut_cac"}`)
	st := decodeState(t, sim)
	if got := string(st.StageStates["d1"].Answer); got != `{"choice":"cut_cac"}` {
		t.Fatalf("stored answer = %s", got)
	}
	if st.StageStates["d1"].CompletedAt.IsZero() {
		t.Fatalf("stage completion timestamp not set")
	}
	if st.CurrentStageID == nil || *st.CurrentStageID != "d2" {
		t.Fatalf("cursor = %v, want d2", st.CurrentStageID)
	}
}

func TestSubmitStageOutOfOrderKeepsCursor(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")

	sim = f.mustSubmit(t, sim.ID, "d2", `{"ranked":["a"]}`)
	st := decodeState(t, sim)
	if _, ok := st.StageStates["d2"]; !ok {
		t.Fatalf("out-of-order answer not recorded")
	}
	if st.CurrentStageID == nil || *st.CurrentStageID != "d1" {
		t.Fatalf("cursor moved on out-of-order submit: %v", st.CurrentStageID)
	}
}

func TestSubmitStageResubmitOverwrites(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")

	f.mustSubmit(t, sim.ID, "d1", `{"choice":"first"}`)
	sim = f.mustSubmit(t, sim.ID, "d1", `{"choice":"second"}`)

	st := decodeState(t, sim)
	if got := string(st.StageStates["d1"].Answer); got != `{"choice":"second"}` {
		t.Fatalf("resubmission should overwrite, got %s", got)
	}

	// The event log is append-only: both submissions stay on record.
	submitted := 0
	for _, ev := range st.EventLog {
		if ev.Type == types.SimulationEventStageSubmitted {
			submitted++
		}
	}
	if submitted != 2 {
		t.Fatalf("stage_submitted events = %d, want 2", submitted)
	}
	if st.EventLog[0].Type != types.SimulationEventStarted {
		t.Fatalf("earlier events must be retained, log = %+v", st.EventLog)
	}
}

func TestSubmitStageUnknownStage(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")

	_, err := f.svc.SubmitStage(f.dbc, f.userID, sim.ID, "d99", json.RawMessage(`{}`))
	if !apierr.IsCode(err, apierr.CodeInvalidStage) {
		t.Fatalf("err = %v, want invalid_stage", err)
	}
}

func TestSubmitStageOwnership(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")

	_, err := f.svc.SubmitStage(f.dbc, uuid.New(), sim.ID, "d1", json.RawMessage(`{}`))
	if !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("foreign user err = %v, want forbidden", err)
	}

	_, err = f.svc.SubmitStage(f.dbc, f.userID, uuid.New(), "d1", json.RawMessage(`{}`))
	if !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("unknown simulation err = %v, want not_found", err)
	}
}

func TestCompleteRequiresAllStages(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")
	f.mustSubmit(t, sim.ID, "d1", `{"choice":"cut_cac"}`)

	_, err := f.svc.Complete(f.dbc, f.userID, sim.ID)
	if !apierr.IsCode(err, apierr.CodeValidation) {
		t.Fatalf("err = %v, want validation_failed", err)
	}
	if f.trigger.count() != 0 {
		t.Fatalf("failed completion must not fire the trigger")
	}

	current, _ := f.simRepo.GetByID(context.Background(), nil, sim.ID)
	if current.Status != types.SimulationStatusInProgress {
		t.Fatalf("failed completion changed status to %q", current.Status)
	}
}

func TestCompleteHappyPath(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")
	f.mustSubmit(t, sim.ID, "d1", `{"choice":"cut_cac"}`)
	f.mustSubmit(t, sim.ID, "d2", `{"ranked":["paid_social"]}`)
	f.mustSubmit(t, sim.ID, "d3", `{"choice":"commit"}`)

	done, err := f.svc.Complete(f.dbc, f.userID, sim.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != types.SimulationStatusCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}

	st := decodeState(t, done)
	if st.CurrentStageID != nil {
		t.Fatalf("cursor should clear on completion, got %v", *st.CurrentStageID)
	}
	if last := st.EventLog[len(st.EventLog)-1]; last.Type != types.SimulationEventCompleted {
		t.Fatalf("last event = %q, want simulation_completed", last.Type)
	}
	if f.trigger.count() != 1 {
		t.Fatalf("trigger fired %d times, want 1", f.trigger.count())
	}
}

func TestCompletedSimulationIsTerminal(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")
	f.mustSubmit(t, sim.ID, "d1", `{}`)
	f.mustSubmit(t, sim.ID, "d2", `{}`)
	f.mustSubmit(t, sim.ID, "d3", `{}`)
	if _, err := f.svc.Complete(f.dbc, f.userID, sim.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := f.svc.Complete(f.dbc, f.userID, sim.ID); !apierr.IsCode(err, apierr.CodeAlreadyCompleted) {
		t.Fatalf("second Complete err = %v, want already_completed", err)
	}
	if _, err := f.svc.SubmitStage(f.dbc, f.userID, sim.ID, "d1", json.RawMessage(`{"choice":"late"}`)); !apierr.IsCode(err, apierr.CodeAlreadyCompleted) {
		t.Fatalf("submit after completion err = %v, want already_completed", err)
	}
	if f.trigger.count() != 1 {
		t.Fatalf("trigger fired %d times across retries, want 1", f.trigger.count())
	}

	// Start remains a fetch after completion.
	again := f.mustStart(t, "unit-economics-crisis")
	if again.ID != sim.ID || again.Status != types.SimulationStatusCompleted {
		t.Fatalf("Start after completion returned %s (%s)", again.ID, again.Status)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	f := newSimFixture(t)
	sim := f.mustStart(t, "unit-economics-crisis")

	got, err := f.svc.Get(f.dbc, f.userID, sim.ID)
	if err != nil || got.ID != sim.ID {
		t.Fatalf("Get: %v", err)
	}
	if _, err := f.svc.Get(f.dbc, uuid.New(), sim.ID); !apierr.IsCode(err, apierr.CodeForbidden) {
		t.Fatalf("foreign Get err = %v, want forbidden", err)
	}
	if _, err := f.svc.Get(f.dbc, f.userID, uuid.New()); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("missing Get err = %v, want not_found", err)
	}
}
