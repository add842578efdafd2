package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserSettings holds per-owner preferences. One row per owner, created
// lazily on first write.
type UserSettings struct {
	ID       string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	OwnerID  string `gorm:"column:owner_id;type:varchar(64);not null;uniqueIndex" json:"owner_id"`
	Currency string `gorm:"column:currency;type:varchar(8);not null;default:USD" json:"currency"`
	// MonthlyBudget / YearlyBudget are nil when no budget is configured.
	MonthlyBudget *decimal.Decimal `gorm:"column:monthly_budget;type:decimal(10,2);default:null" json:"monthly_budget"`
	YearlyBudget  *decimal.Decimal `gorm:"column:yearly_budget;type:decimal(10,2);default:null" json:"yearly_budget"`
	// AlertThresholdPct is the percentage of budget at which an
	// "approaching" alert becomes eligible.
	AlertThresholdPct int       `gorm:"column:alert_threshold_pct;not null;default:80" json:"alert_threshold_pct"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}
