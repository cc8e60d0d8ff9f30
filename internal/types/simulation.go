package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SimulationStatusInProgress = "in_progress"
	SimulationStatusCompleted  = "completed"
)

// Simulation is one user's attempt at one case. The State column holds the
// free-form progress blob (stage answers, current stage, event log); see
// SimulationState for the decoded shape.
type Simulation struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_case_simulation,unique" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CaseID      string         `gorm:"column:case_id;not null;index:idx_user_case_simulation,unique" json:"case_id"`
	Status      string         `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	State       datatypes.JSON `gorm:"type:jsonb;column:state" json:"state"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Simulation) TableName() string { return "simulation" }
