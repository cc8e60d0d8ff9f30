package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/types"
)

type LessonService interface {
	List(dbc dbctx.Context) ([]*types.Lesson, error)
	// CompleteForUser records a lesson completion; repeating it is a
	// no-op refresh, not an error.
	CompleteForUser(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonCompletion, error)
	ListCompletionsForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonCompletion, error)
}

type lessonService struct {
	db             *gorm.DB
	log            *logger.Logger
	lessonRepo     repos.LessonRepo
	completionRepo repos.LessonCompletionRepo
}

func NewLessonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	lessonRepo repos.LessonRepo,
	completionRepo repos.LessonCompletionRepo,
) LessonService {
	return &lessonService{
		db:             db,
		log:            baseLog.With("service", "LessonService"),
		lessonRepo:     lessonRepo,
		completionRepo: completionRepo,
	}
}

func (s *lessonService) List(dbc dbctx.Context) ([]*types.Lesson, error) {
	return s.lessonRepo.List(dbc.Ctx, dbc.Tx)
}

func (s *lessonService) CompleteForUser(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonCompletion, error) {
	lessons, err := s.lessonRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{lessonID})
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("lesson %s not found", lessonID))
	}

	row := &types.LessonCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.completionRepo.Upsert(dbc.Ctx, dbc.Tx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *lessonService) ListCompletionsForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonCompletion, error) {
	return s.completionRepo.GetByUserID(dbc.Ctx, dbc.Tx, userID)
}
