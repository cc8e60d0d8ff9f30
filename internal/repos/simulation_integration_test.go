package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/praxishq/praxis-backend/internal/repos/testutil"
	"github.com/praxishq/praxis-backend/internal/types"
)

func TestSimulationRepoCreateAndFetch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSimulationRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sim-create@example.com")
	sim := testutil.SeedSimulation(t, ctx, tx, user.ID, "unit-economics-crisis")

	got, err := repo.GetByID(ctx, tx, sim.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != sim.ID || got.Status != types.SimulationStatusInProgress {
		t.Fatalf("GetByID = %+v", got)
	}

	byCase, err := repo.GetByUserAndCase(ctx, tx, user.ID, "unit-economics-crisis")
	if err != nil {
		t.Fatalf("GetByUserAndCase: %v", err)
	}
	if byCase == nil || byCase.ID != sim.ID {
		t.Fatalf("GetByUserAndCase = %+v", byCase)
	}

	missing, err := repo.GetByID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestSimulationRepoUniquePerUserAndCase(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSimulationRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sim-unique@example.com")
	testutil.SeedSimulation(t, ctx, tx, user.ID, "unit-economics-crisis")

	dup := &types.Simulation{
		ID:     uuid.New(),
		UserID: user.ID,
		CaseID: "unit-economics-crisis",
		Status: types.SimulationStatusInProgress,
		State:  datatypes.JSON([]byte(`{}`)),
	}
	if _, err := repo.Create(ctx, tx, dup); err == nil {
		t.Fatalf("expected unique violation for duplicate (user, case)")
	}
}

func TestSimulationRepoUpdateStateReplacesBlob(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSimulationRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sim-update@example.com")
	sim := testutil.SeedSimulation(t, ctx, tx, user.ID, "unit-economics-crisis")

	sim.State = datatypes.JSON([]byte(`{"stageStates":{"d1":{"answer":"cut paid"}},"currentStageId":"d2","eventLog":[{"type":"stage_submitted"}]}`))
	if err := repo.UpdateState(ctx, tx, sim); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}

	got, err := repo.GetByIDForUpdate(ctx, tx, sim.ID)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if got == nil {
		t.Fatalf("simulation vanished")
	}
	if string(got.State) != string(sim.State) {
		t.Fatalf("state = %s", got.State)
	}
}

func TestLessonCompletionRepoUpsertIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewLessonCompletionRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "lesson-upsert@example.com")
	lesson := testutil.SeedLesson(t, ctx, tx, "unit-economics-basics")

	row := &types.LessonCompletion{UserID: user.ID, LessonID: lesson.ID}
	if err := repo.Upsert(ctx, tx, row); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, tx, &types.LessonCompletion{UserID: user.ID, LessonID: lesson.ID}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	rows, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("completions = %d, want 1", len(rows))
	}
}
