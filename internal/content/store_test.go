package content

import (
	"errors"
	"testing"
)

func TestStoreFromDir_LoadsPublishedCases(t *testing.T) {
	s, err := NewStoreFromDir(nil, "testdata")
	if err != nil {
		t.Fatalf("NewStoreFromDir: %v", err)
	}

	c, err := s.Get("unit-economics-crisis")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Title != "Unit Economics Crisis" {
		t.Fatalf("title: %q", c.Title)
	}
	if got := c.StageIDs(); len(got) != 3 || got[0] != "d1" || got[2] != "d3" {
		t.Fatalf("stage ids: %v", got)
	}
	if len(c.PrerequisiteLessons) != 2 {
		t.Fatalf("prerequisites: %v", c.PrerequisiteLessons)
	}

	if _, err := s.Get("supply-chain-draft"); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("unpublished case should be not found, got %v", err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("unknown case should be not found, got %v", err)
	}

	list := s.List()
	if len(list) != 1 || list[0].ID != "unit-economics-crisis" {
		t.Fatalf("List should only surface published cases: %+v", list)
	}
}

func TestStoreValidation(t *testing.T) {
	cases := []struct {
		name string
		c    *Case
	}{
		{name: "missing_id", c: &Case{Title: "x", DecisionPoints: []DecisionPoint{{ID: "d1"}}}},
		{name: "missing_title", c: &Case{ID: "x", DecisionPoints: []DecisionPoint{{ID: "d1"}}}},
		{name: "no_decision_points", c: &Case{ID: "x", Title: "x"}},
		{name: "duplicate_stage_ids", c: &Case{ID: "x", Title: "x", DecisionPoints: []DecisionPoint{{ID: "d1"}, {ID: "d1"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStoreFromCases([]*Case{tc.c}); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestCaseStageHelpers(t *testing.T) {
	c := &Case{
		ID: "x", Title: "x",
		DecisionPoints: []DecisionPoint{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}},
	}
	if got := c.FirstStageID(); got != "d1" {
		t.Fatalf("FirstStageID: %q", got)
	}
	if !c.HasStage("d2") || c.HasStage("d9") {
		t.Fatalf("HasStage mismatch")
	}
	if got := c.NextStageAfter("d1"); got != "d2" {
		t.Fatalf("NextStageAfter(d1): %q", got)
	}
	if got := c.NextStageAfter("d3"); got != "" {
		t.Fatalf("NextStageAfter(last): %q", got)
	}
	if got := c.NextStageAfter("d9"); got != "" {
		t.Fatalf("NextStageAfter(unknown): %q", got)
	}
}
