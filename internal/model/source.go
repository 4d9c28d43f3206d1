package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SourceType string

const (
	SourceTypeEmail   SourceType = "email"
	SourceTypePhone   SourceType = "phone"
	SourceTypeWebhook SourceType = "webhook"
)

type Source struct {
	ID          string     `gorm:"column:id;primaryKey;type:char(36);<-:create"`
	SourceType  SourceType `gorm:"column:source_type;type:varchar(20);not null;uniqueIndex:idx_sources_type_value,priority:1"`
	SourceValue string     `gorm:"column:source_value;type:varchar(255);not null;uniqueIndex:idx_sources_type_value,priority:2"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (Source) TableName() string {
	return "sources"
}

func (s *Source) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UserSource subscribes a user to a source. Removal flips IsActive; rows are kept.
type UserSource struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_user_sources_user_source,priority:1"`
	SourceID  string    `gorm:"column:source_id;type:char(36);not null;index;uniqueIndex:idx_user_sources_user_source,priority:2"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (UserSource) TableName() string {
	return "user_sources"
}
