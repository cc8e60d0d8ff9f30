package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/types"
)

type DebriefRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Debrief) error
	GetBySimulationID(ctx context.Context, tx *gorm.DB, simulationID uuid.UUID) (*types.Debrief, error)
}

type debriefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDebriefRepo(db *gorm.DB, baseLog *logger.Logger) DebriefRepo {
	return &debriefRepo{db: db, log: baseLog.With("repo", "DebriefRepo")}
}

func (r *debriefRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Debrief) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}

	// Re-running the scorer for a simulation replaces its debrief.
	return transaction.WithContext(ctx).
		Where("simulation_id = ?", row.SimulationID).
		Assign(row).
		FirstOrCreate(row).Error
}

func (r *debriefRepo) GetBySimulationID(ctx context.Context, tx *gorm.DB, simulationID uuid.UUID) (*types.Debrief, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Debrief
	err := transaction.WithContext(ctx).
		Where("simulation_id = ?", simulationID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
