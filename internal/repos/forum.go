package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/types"
)

type ForumThreadRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ForumThread) (*types.ForumThread, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ForumThread, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ForumThread, error)
}

type ForumPostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ForumPost) (*types.ForumPost, error)
	GetByThreadID(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) ([]*types.ForumPost, error)
}

type forumThreadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewForumThreadRepo(db *gorm.DB, baseLog *logger.Logger) ForumThreadRepo {
	return &forumThreadRepo{db: db, log: baseLog.With("repo", "ForumThreadRepo")}
}

func (r *forumThreadRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ForumThread) (*types.ForumThread, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, errors.New("nil forum thread")
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *forumThreadRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ForumThread, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ForumThread
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *forumThreadRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ForumThread, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ForumThread
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type forumPostRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewForumPostRepo(db *gorm.DB, baseLog *logger.Logger) ForumPostRepo {
	return &forumPostRepo{db: db, log: baseLog.With("repo", "ForumPostRepo")}
}

func (r *forumPostRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ForumPost) (*types.ForumPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, errors.New("nil forum post")
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *forumPostRepo) GetByThreadID(ctx context.Context, tx *gorm.DB, threadID uuid.UUID) ([]*types.ForumPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ForumPost
	if threadID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
