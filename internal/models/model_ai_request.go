package models

import "time"

// AIRequest is an append-only log of AI-assisted endpoint usage, counted by
// the sliding-hour rate limiter and purged past the retention age.
type AIRequest struct {
	ID          string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerID     string    `gorm:"column:owner_id;type:varchar(64);not null;index" json:"owner_id"`
	Endpoint    string    `gorm:"column:endpoint;type:varchar(64);not null" json:"endpoint"`
	RequestedAt time.Time `gorm:"column:requested_at;not null;index" json:"requested_at"`
	InputLength int       `gorm:"column:input_length;not null;default:0" json:"input_length"`
}

func (AIRequest) TableName() string {
	return "ai_request"
}
