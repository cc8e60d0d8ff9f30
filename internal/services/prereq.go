package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
)

// GateResult reports whether a user may enter a case's interactive stage
// and, on failure, which prerequisite lessons are still missing.
type GateResult struct {
	Passed         bool     `json:"passed"`
	MissingLessons []string `json:"missing_lessons,omitempty"`
}

type PrereqService interface {
	Check(ctx context.Context, userID uuid.UUID, caseID string) (*GateResult, error)
}

type prereqService struct {
	db             *gorm.DB
	log            *logger.Logger
	cases          content.Store
	lessonRepo     repos.LessonRepo
	completionRepo repos.LessonCompletionRepo
}

func NewPrereqService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cases content.Store,
	lessonRepo repos.LessonRepo,
	completionRepo repos.LessonCompletionRepo,
) PrereqService {
	return &prereqService{
		db:             db,
		log:            baseLog.With("service", "PrereqService"),
		cases:          cases,
		lessonRepo:     lessonRepo,
		completionRepo: completionRepo,
	}
}

// Check is a pure read; it never creates state. Every prerequisite lesson
// must have a completion record; the order they were completed in does not
// matter.
func (s *prereqService) Check(ctx context.Context, userID uuid.UUID, caseID string) (*GateResult, error) {
	c, err := s.cases.Get(caseID)
	if err != nil {
		if errors.Is(err, content.ErrCaseNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("case %q: %w", caseID, err))
		}
		return nil, err
	}

	if len(c.PrerequisiteLessons) == 0 {
		return &GateResult{Passed: true}, nil
	}

	lessons, err := s.lessonRepo.GetBySlugs(ctx, nil, c.PrerequisiteLessons)
	if err != nil {
		return nil, fmt.Errorf("load prerequisite lessons: %w", err)
	}
	lessonIDBySlug := make(map[string]uuid.UUID, len(lessons))
	var lessonIDs []uuid.UUID
	for _, l := range lessons {
		lessonIDBySlug[l.Slug] = l.ID
		lessonIDs = append(lessonIDs, l.ID)
	}

	completions, err := s.completionRepo.GetByUserAndLessonIDs(ctx, nil, userID, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("load lesson completions: %w", err)
	}
	completed := make(map[uuid.UUID]bool, len(completions))
	for _, lc := range completions {
		completed[lc.LessonID] = true
	}

	var missing []string
	for _, slug := range c.PrerequisiteLessons {
		id, known := lessonIDBySlug[slug]
		if !known || !completed[id] {
			missing = append(missing, slug)
		}
	}
	sort.Strings(missing)

	return &GateResult{Passed: len(missing) == 0, MissingLessons: missing}, nil
}
