package model

import "time"

type ParseError struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	RawMessage  string     `gorm:"column:raw_message;type:text;not null"`
	ErrorReason string     `gorm:"column:error_reason;type:varchar(512);not null"`
	WebhookID   string     `gorm:"column:webhook_id;type:varchar(255);index"`
	OccurredAt  time.Time  `gorm:"column:occurred_at;not null"`
	Resolved    bool       `gorm:"column:resolved;not null;default:false;index"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
}

func (ParseError) TableName() string {
	return "parse_errors"
}
