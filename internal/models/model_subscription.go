package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/subtrackr/subtrackr/pkg/types"
)

// Subscription is one recurring payment tracked by an owner.
// NextBillingDate is a calendar date string ("2006-01-02"), never a
// timestamp: date arithmetic must not depend on the observer's timezone,
// and a varchar date compares correctly with plain string comparison.
type Subscription struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerID string `gorm:"column:owner_id;type:varchar(64);not null;index" json:"owner_id"`
	Name    string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// Cost is the per-cycle price, stored as a fixed-point decimal.
	Cost            decimal.Decimal          `gorm:"column:cost;type:decimal(10,2);not null" json:"cost"`
	BillingCycle    types.BillingCycle       `gorm:"column:billing_cycle;type:varchar(16);not null" json:"billing_cycle"`
	NextBillingDate string                   `gorm:"column:next_billing_date;type:varchar(10);not null" json:"next_billing_date"`
	Category        string                   `gorm:"column:category;type:varchar(128)" json:"category"`
	Status          types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	PaymentMethod   string                   `gorm:"column:payment_method;type:varchar(128)" json:"payment_method"`
	Icon            string                   `gorm:"column:icon;type:varchar(128)" json:"icon"`
	// CreatedAt / UpdatedAt are managed by GORM.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func (s *Subscription) Active() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}
