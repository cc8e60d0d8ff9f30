package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeSimulationCompleted = "simulation_completed"
	NotificationTypeDebriefReady        = "debrief_ready"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type      string         `gorm:"column:type;not null;index" json:"type"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Message   string         `gorm:"column:message" json:"message"`
	Link      string         `gorm:"column:link" json:"link"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Notification) TableName() string { return "notification" }
