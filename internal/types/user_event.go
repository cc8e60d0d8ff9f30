package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserEvent is the analytics trail; one row per notable user action. It is
// separate from the per-simulation event log embedded in the state blob.
type UserEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SimulationID *uuid.UUID     `gorm:"type:uuid;index" json:"simulation_id,omitempty"`
	Simulation   *Simulation    `gorm:"constraint:OnDelete:SET NULL;foreignKey:SimulationID;references:ID" json:"simulation,omitempty"`
	Type         string         `gorm:"column:type;not null;index" json:"type"`
	Data         datatypes.JSON `gorm:"type:jsonb;column:data" json:"data"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserEvent) TableName() string { return "user_event" }
