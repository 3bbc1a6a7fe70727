package db

import "time"

type AuditEventModel struct {
	ID          string `gorm:"primaryKey"`
	EventType   string `gorm:"index;not null"`
	TargetID    string `gorm:"index"`
	PayloadJSON []byte
	PayloadHash string `gorm:"not null"`
	Result      string `gorm:"not null"`
	ErrorCode   *string
	CreatedAt   time.Time `gorm:"index"`
}

func (AuditEventModel) TableName() string {
	return "audit_events"
}
