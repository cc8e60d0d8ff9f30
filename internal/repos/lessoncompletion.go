package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/types"
)

type LessonCompletionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonCompletion) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonCompletion, error)
	GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonCompletion, error)
}

type lessonCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return &lessonCompletionRepo{db: db, log: baseLog.With("repo", "LessonCompletionRepo")}
}

func (r *lessonCompletionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonCompletion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}

	// Upsert by unique user_id + lesson_id
	return transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", row.UserID, row.LessonID).
		Assign(row).
		FirstOrCreate(row).Error
}

func (r *lessonCompletionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LessonCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LessonCompletion
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonCompletionRepo) GetByUserAndLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonCompletion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LessonCompletion
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
