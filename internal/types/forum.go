package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ForumThread struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	CaseID    *string        `gorm:"column:case_id;index" json:"case_id,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Body      string         `gorm:"column:body" json:"body"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ForumThread) TableName() string { return "forum_thread" }

type ForumPost struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ThreadID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"thread_id"`
	Thread    *ForumThread   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ThreadID;references:ID" json:"thread,omitempty"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Body      string         `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ForumPost) TableName() string { return "forum_post" }
