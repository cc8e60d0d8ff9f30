package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Debrief is the scored post-completion feedback for one simulation,
// produced asynchronously by the debrief worker.
type Debrief struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SimulationID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"simulation_id"`
	Simulation   *Simulation    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SimulationID;references:ID" json:"simulation,omitempty"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CaseID       string         `gorm:"column:case_id;not null;index" json:"case_id"`
	Score        float64        `gorm:"column:score;not null;default:0" json:"score"`
	Summary      datatypes.JSON `gorm:"type:jsonb;column:summary" json:"summary"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Debrief) TableName() string { return "debrief" }
