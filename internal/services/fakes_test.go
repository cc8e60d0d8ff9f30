package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func crisisCase() *content.Case {
	return &content.Case{
		ID:                  "unit-economics-crisis",
		Title:               "Unit Economics Crisis",
		Published:           true,
		PrerequisiteLessons: []string{"unit-economics-basics", "cohort-analysis"},
		DecisionPoints: []content.DecisionPoint{
			{ID: "d1", Title: "Diagnose the burn", Prompt: "What is driving the losses?"},
			{ID: "d2", Title: "Pick a lever", Prompt: "Which channel do you cut first?"},
			{ID: "d3", Title: "Commit", Prompt: "Lock in the plan."},
		},
	}
}

func testStore(t *testing.T, cases ...*content.Case) content.Store {
	t.Helper()
	s, err := content.NewStoreFromCases(cases)
	if err != nil {
		t.Fatalf("content store: %v", err)
	}
	return s
}

// fakeSimulationRepo keeps rows in memory. Mutations are handed back as
// copies so callers only see writes that went through UpdateState, mirroring
// transactional visibility.
type fakeSimulationRepo struct {
	mu           sync.Mutex
	rows         map[uuid.UUID]*types.Simulation
	beforeCreate func()
}

func newFakeSimulationRepo() *fakeSimulationRepo {
	return &fakeSimulationRepo{rows: map[uuid.UUID]*types.Simulation{}}
}

func (f *fakeSimulationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Simulation) (*types.Simulation, error) {
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.UserID == row.UserID && existing.CaseID == row.CaseID {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"idx_user_case_simulation\"")
		}
	}
	cp := *row
	f.rows[row.ID] = &cp
	return row, nil
}

func (f *fakeSimulationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Simulation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeSimulationRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Simulation, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeSimulationRepo) GetByUserAndCase(ctx context.Context, tx *gorm.DB, userID uuid.UUID, caseID string) (*types.Simulation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.UserID == userID && row.CaseID == caseID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSimulationRepo) UpdateState(ctx context.Context, tx *gorm.DB, row *types.Simulation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[row.ID]; !ok {
		return fmt.Errorf("simulation %s not found", row.ID)
	}
	cp := *row
	f.rows[row.ID] = &cp
	return nil
}

func (f *fakeSimulationRepo) insert(row *types.Simulation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.rows[row.ID] = &cp
}

type fakeUserEventRepo struct {
	mu   sync.Mutex
	rows []*types.UserEvent
}

func (f *fakeUserEventRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserEvent) ([]*types.UserEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeUserEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.UserEvent
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeUserEventRepo) countType(eventType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.Type == eventType {
			n++
		}
	}
	return n
}

type fakeLessonRepo struct {
	lessons []*types.Lesson
}

func (f *fakeLessonRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Lesson) ([]*types.Lesson, error) {
	f.lessons = append(f.lessons, rows...)
	return rows, nil
}

func (f *fakeLessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for _, l := range f.lessons {
		for _, id := range ids {
			if l.ID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for _, l := range f.lessons {
		for _, slug := range slugs {
			if l.Slug == slug {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Lesson, error) {
	return f.lessons, nil
}

type fakeLessonCompletionRepo struct {
	rows []*types.LessonCompletion
}

func (f *fakeLessonCompletionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonCompletion) error {
	for _, existing := range f.rows {
		if existing.UserID == row.UserID && existing.LessonID == row.LessonID {
			return nil
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeLessonCompletionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonCompletion, error) {
	var out []*types.LessonCompletion
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeLessonCompletionRepo) GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonCompletion, error) {
	var out []*types.LessonCompletion
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		for _, id := range lessonIDs {
			if row.LessonID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

// fakeCompletionTrigger counts Fire calls so tests can assert the trigger
// runs exactly once per completion.
type fakeCompletionTrigger struct {
	mu     sync.Mutex
	fired  int
	simIDs []uuid.UUID
}

func (f *fakeCompletionTrigger) Fire(ctx context.Context, sim *types.Simulation, c *content.Case) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fired++
	if sim != nil {
		f.simIDs = append(f.simIDs, sim.ID)
	}
}

func (f *fakeCompletionTrigger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired
}

type fakeSimNotifier struct {
	mu        sync.Mutex
	started   int
	completed int
	debriefs  int
	created   int
}

func (f *fakeSimNotifier) SimulationStarted(userID uuid.UUID, sim *types.Simulation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}

func (f *fakeSimNotifier) SimulationCompleted(userID uuid.UUID, sim *types.Simulation, caseTitle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed++
}

func (f *fakeSimNotifier) DebriefReady(userID uuid.UUID, sim *types.Simulation, debrief *types.Debrief) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.debriefs++
}

func (f *fakeSimNotifier) NotificationCreated(userID uuid.UUID, n *types.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
}

func (f *fakeSimNotifier) startedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// alwaysPassGate skips prerequisite checks for tests that exercise the
// engine rather than the gate.
type alwaysPassGate struct{}

func (alwaysPassGate) Check(ctx context.Context, userID uuid.UUID, caseID string) (*GateResult, error) {
	return &GateResult{Passed: true}, nil
}
