package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/types"
)

type prereqFixture struct {
	svc         PrereqService
	lessons     *fakeLessonRepo
	completions *fakeLessonCompletionRepo
	userID      uuid.UUID
	basics      *types.Lesson
	cohorts     *types.Lesson
}

func newPrereqFixture(t *testing.T, cases ...*content.Case) *prereqFixture {
	t.Helper()
	if len(cases) == 0 {
		cases = []*content.Case{crisisCase()}
	}
	f := &prereqFixture{
		lessons:     &fakeLessonRepo{},
		completions: &fakeLessonCompletionRepo{},
		userID:      uuid.New(),
		basics:      &types.Lesson{ID: uuid.New(), Slug: "unit-economics-basics", Title: "Unit Economics Basics"},
		cohorts:     &types.Lesson{ID: uuid.New(), Slug: "cohort-analysis", Title: "Cohort Analysis"},
	}
	f.lessons.lessons = []*types.Lesson{f.basics, f.cohorts}
	f.svc = NewPrereqService(nil, testLogger(t), testStore(t, cases...), f.lessons, f.completions)
	return f
}

func (f *prereqFixture) complete(lesson *types.Lesson) {
	f.completions.rows = append(f.completions.rows, &types.LessonCompletion{
		ID:       uuid.New(),
		UserID:   f.userID,
		LessonID: lesson.ID,
	})
}

func TestGatePassesWithAllPrereqsDone(t *testing.T) {
	f := newPrereqFixture(t)
	// Completion order is irrelevant; the newer lesson first.
	f.complete(f.cohorts)
	f.complete(f.basics)

	res, err := f.svc.Check(context.Background(), f.userID, "unit-economics-crisis")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Passed || len(res.MissingLessons) != 0 {
		t.Fatalf("gate = %+v, want pass", res)
	}
}

func TestGateReportsMissingLessons(t *testing.T) {
	f := newPrereqFixture(t)
	f.complete(f.basics)

	res, err := f.svc.Check(context.Background(), f.userID, "unit-economics-crisis")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Passed {
		t.Fatalf("gate passed with a missing prerequisite")
	}
	if len(res.MissingLessons) != 1 || res.MissingLessons[0] != "cohort-analysis" {
		t.Fatalf("missing = %v, want [cohort-analysis]", res.MissingLessons)
	}
}

func TestGateReportsAllMissingSorted(t *testing.T) {
	f := newPrereqFixture(t)

	res, err := f.svc.Check(context.Background(), f.userID, "unit-economics-crisis")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := []string{"cohort-analysis", "unit-economics-basics"}
	if res.Passed || len(res.MissingLessons) != len(want) {
		t.Fatalf("gate = %+v, want both missing", res)
	}
	for i, slug := range want {
		if res.MissingLessons[i] != slug {
			t.Fatalf("missing = %v, want %v", res.MissingLessons, want)
		}
	}
}

func TestGateUnknownPrereqSlugCountsMissing(t *testing.T) {
	c := crisisCase()
	c.ID = "with-phantom-prereq"
	c.PrerequisiteLessons = []string{"unit-economics-basics", "not-a-lesson"}

	f := newPrereqFixture(t, c)
	f.complete(f.basics)

	res, err := f.svc.Check(context.Background(), f.userID, "with-phantom-prereq")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Passed || len(res.MissingLessons) != 1 || res.MissingLessons[0] != "not-a-lesson" {
		t.Fatalf("gate = %+v, want missing [not-a-lesson]", res)
	}
}

func TestGateNoPrereqsAlwaysPasses(t *testing.T) {
	c := crisisCase()
	c.ID = "open-case"
	c.PrerequisiteLessons = nil

	f := newPrereqFixture(t, c)
	res, err := f.svc.Check(context.Background(), f.userID, "open-case")
	if err != nil || !res.Passed {
		t.Fatalf("gate = %+v (%v), want pass", res, err)
	}
}

func TestGateUnknownCase(t *testing.T) {
	f := newPrereqFixture(t)
	if _, err := f.svc.Check(context.Background(), f.userID, "nope"); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestGateUnpublishedCaseHidden(t *testing.T) {
	draft := crisisCase()
	draft.ID = "draft-case"
	draft.Published = false

	f := newPrereqFixture(t, crisisCase(), draft)
	if _, err := f.svc.Check(context.Background(), f.userID, "draft-case"); !apierr.IsCode(err, apierr.CodeNotFound) {
		t.Fatalf("err = %v, want not_found for unpublished case", err)
	}
}
