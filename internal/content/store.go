package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
)

// ErrCaseNotFound covers both unknown and unpublished cases; callers are
// not told which.
var ErrCaseNotFound = errors.New("case not found")

// Store is the read-only case content store. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(caseID string) (*Case, error)
	List() []*Case
}

type store struct {
	cases map[string]*Case
	order []string
}

// NewStoreFromDir loads every *.yaml / *.yml file under dir. A file that
// fails validation aborts the load; a broken case catalog should stop the
// service from booting rather than 404 at runtime.
func NewStoreFromDir(log *logger.Logger, dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read case dir %s: %w", dir, err)
	}
	var cases []*Case
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read case file %s: %w", name, err)
		}
		c := &Case{}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse case file %s: %w", name, err)
		}
		if err := validateCase(c); err != nil {
			return nil, fmt.Errorf("invalid case file %s: %w", name, err)
		}
		cases = append(cases, c)
	}
	if log != nil {
		log.Info("Case content loaded", "dir", dir, "cases", len(cases))
	}
	return NewStoreFromCases(cases)
}

// NewStoreFromCases builds a store from already-parsed cases. Used by the
// dir loader and by tests.
func NewStoreFromCases(cases []*Case) (Store, error) {
	s := &store{cases: make(map[string]*Case, len(cases))}
	for _, c := range cases {
		if err := validateCase(c); err != nil {
			return nil, err
		}
		if _, dup := s.cases[c.ID]; dup {
			return nil, fmt.Errorf("duplicate case id %q", c.ID)
		}
		s.cases[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	sort.Strings(s.order)
	return s, nil
}

func (s *store) Get(caseID string) (*Case, error) {
	c, ok := s.cases[caseID]
	if !ok || !c.Published {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

func (s *store) List() []*Case {
	out := make([]*Case, 0, len(s.order))
	for _, id := range s.order {
		if c := s.cases[id]; c.Published {
			out = append(out, c)
		}
	}
	return out
}

func validateCase(c *Case) error {
	if c == nil {
		return errors.New("nil case")
	}
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("missing case id")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("case %q: missing title", c.ID)
	}
	if len(c.DecisionPoints) == 0 {
		return fmt.Errorf("case %q: no decision points", c.ID)
	}
	seen := map[string]bool{}
	for _, dp := range c.DecisionPoints {
		if strings.TrimSpace(dp.ID) == "" {
			return fmt.Errorf("case %q: decision point with empty id", c.ID)
		}
		if seen[dp.ID] {
			return fmt.Errorf("case %q: duplicate decision point id %q", c.ID, dp.ID)
		}
		seen[dp.ID] = true
	}
	return nil
}
