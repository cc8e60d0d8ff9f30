package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/types"
)

// SimulationRepo is the durable simulation state store. The state blob is
// written whole; callers never see a partially updated blob.
type SimulationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Simulation) (*types.Simulation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Simulation, error)
	// GetByIDForUpdate takes a FOR UPDATE row lock; call it inside a
	// transaction to serialize concurrent submissions per simulation.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Simulation, error)
	GetByUserAndCase(ctx context.Context, tx *gorm.DB, userID uuid.UUID, caseID string) (*types.Simulation, error)
	UpdateState(ctx context.Context, tx *gorm.DB, row *types.Simulation) error
}

type simulationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimulationRepo(db *gorm.DB, baseLog *logger.Logger) SimulationRepo {
	return &simulationRepo{db: db, log: baseLog.With("repo", "SimulationRepo")}
}

func (r *simulationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Simulation) (*types.Simulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, errors.New("nil simulation")
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *simulationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Simulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Simulation
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

func (r *simulationRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Simulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Simulation
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
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

func (r *simulationRepo) GetByUserAndCase(ctx context.Context, tx *gorm.DB, userID uuid.UUID, caseID string) (*types.Simulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || caseID == "" {
		return nil, nil
	}
	var result types.Simulation
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND case_id = ?", userID, caseID).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *simulationRepo) UpdateState(ctx context.Context, tx *gorm.DB, row *types.Simulation) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return errors.New("missing simulation id")
	}
	return transaction.WithContext(ctx).
		Model(&types.Simulation{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"state":        row.State,
			"status":       row.Status,
			"completed_at": row.CompletedAt,
			"updated_at":   time.Now().UTC(),
		}).Error
}
