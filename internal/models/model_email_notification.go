package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/subtrackr/subtrackr/pkg/types"
)

// EmailNotification is an append-only record of a sent email. It exists
// solely to answer "was this kind already sent in the current window for
// this (owner, subscription) pair". SubscriptionID is "0" for budget-level
// alerts.
type EmailNotification struct {
	ID             string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerID        string                 `gorm:"column:owner_id;type:varchar(64);not null;index:idx_email_notification_owner_kind" json:"owner_id"`
	SubscriptionID string                 `gorm:"column:subscription_id;type:varchar(64);not null" json:"subscription_id"`
	Kind           types.NotificationKind `gorm:"column:kind;type:varchar(64);not null;index:idx_email_notification_owner_kind" json:"kind"`
	SentAt         time.Time              `gorm:"column:sent_at;not null" json:"sent_at"`
	// Extra stores kind-specific metadata, e.g. old/new cost for price changes.
	Extra datatypes.JSONMap `gorm:"column:extra;type:jsonb" json:"extra"`
}

func (EmailNotification) TableName() string {
	return "email_notification"
}
