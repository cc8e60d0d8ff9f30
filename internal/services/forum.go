package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/apierr"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/types"
)

type ForumService interface {
	CreateThread(dbc dbctx.Context, authorID uuid.UUID, caseID *string, title, body string) (*types.ForumThread, error)
	// SeedCaseThread opens the discussion thread for a completed case. It
	// is called best-effort from the completion trigger.
	SeedCaseThread(dbc dbctx.Context, authorID uuid.UUID, c *content.Case) (*types.ForumThread, error)
	ListThreads(dbc dbctx.Context, limit int) ([]*types.ForumThread, error)
	GetThread(dbc dbctx.Context, threadID uuid.UUID) (*types.ForumThread, []*types.ForumPost, error)
	CreatePost(dbc dbctx.Context, authorID, threadID uuid.UUID, body string) (*types.ForumPost, error)
}

type forumService struct {
	db         *gorm.DB
	log        *logger.Logger
	threadRepo repos.ForumThreadRepo
	postRepo   repos.ForumPostRepo
}

func NewForumService(
	db *gorm.DB,
	baseLog *logger.Logger,
	threadRepo repos.ForumThreadRepo,
	postRepo repos.ForumPostRepo,
) ForumService {
	return &forumService{
		db:         db,
		log:        baseLog.With("service", "ForumService"),
		threadRepo: threadRepo,
		postRepo:   postRepo,
	}
}

func (s *forumService) CreateThread(dbc dbctx.Context, authorID uuid.UUID, caseID *string, title, body string) (*types.ForumThread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.Validation(fmt.Errorf("thread title required"))
	}
	row := &types.ForumThread{
		ID:       uuid.New(),
		AuthorID: authorID,
		CaseID:   caseID,
		Title:    title,
		Body:     strings.TrimSpace(body),
	}
	return s.threadRepo.Create(dbc.Ctx, dbc.Tx, row)
}

func (s *forumService) SeedCaseThread(dbc dbctx.Context, authorID uuid.UUID, c *content.Case) (*types.ForumThread, error) {
	if c == nil {
		return nil, fmt.Errorf("nil case")
	}
	caseID := c.ID
	return s.CreateThread(dbc, authorID, &caseID,
		fmt.Sprintf("Debrief discussion: %s", c.Title),
		fmt.Sprintf("Share how you approached %q.", c.Title),
	)
}

func (s *forumService) ListThreads(dbc dbctx.Context, limit int) ([]*types.ForumThread, error) {
	return s.threadRepo.List(dbc.Ctx, dbc.Tx, limit)
}

func (s *forumService) GetThread(dbc dbctx.Context, threadID uuid.UUID) (*types.ForumThread, []*types.ForumPost, error) {
	thread, err := s.threadRepo.GetByID(dbc.Ctx, dbc.Tx, threadID)
	if err != nil {
		return nil, nil, err
	}
	if thread == nil {
		return nil, nil, apierr.NotFound(fmt.Errorf("thread %s not found", threadID))
	}
	posts, err := s.postRepo.GetByThreadID(dbc.Ctx, dbc.Tx, threadID)
	if err != nil {
		return nil, nil, err
	}
	return thread, posts, nil
}

func (s *forumService) CreatePost(dbc dbctx.Context, authorID, threadID uuid.UUID, body string) (*types.ForumPost, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apierr.Validation(fmt.Errorf("post body required"))
	}
	thread, err := s.threadRepo.GetByID(dbc.Ctx, dbc.Tx, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, apierr.NotFound(fmt.Errorf("thread %s not found", threadID))
	}
	row := &types.ForumPost{
		ID:       uuid.New(),
		ThreadID: threadID,
		AuthorID: authorID,
		Body:     body,
	}
	return s.postRepo.Create(dbc.Ctx, dbc.Tx, row)
}
