package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/tool"
)

// ErrValidation reports rejected settings input.
var ErrValidation = errors.New("invalid settings")

const defaultAlertThresholdPct = 80

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Get returns the owner's settings, or defaults when no row exists yet.
// The row itself is only created on first write.
func (s *Service) Get(ctx context.Context, ownerID string) (*models.UserSettings, error) {
	var m models.UserSettings
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSettings{
			OwnerID:           ownerID,
			Currency:          "USD",
			AlertThresholdPct: defaultAlertThresholdPct,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &m, nil
}

// Input carries user-supplied settings fields. Nil budgets clear the limit.
type Input struct {
	Currency          string           `json:"currency"`
	MonthlyBudget     *decimal.Decimal `json:"monthly_budget"`
	YearlyBudget      *decimal.Decimal `json:"yearly_budget"`
	AlertThresholdPct *int             `json:"alert_threshold_pct"`
}

func (in *Input) validate() error {
	if in.Currency != "" && len(in.Currency) > 8 {
		return fmt.Errorf("%w: currency code too long", ErrValidation)
	}
	if in.MonthlyBudget != nil && in.MonthlyBudget.IsNegative() {
		return fmt.Errorf("%w: monthly budget must not be negative", ErrValidation)
	}
	if in.YearlyBudget != nil && in.YearlyBudget.IsNegative() {
		return fmt.Errorf("%w: yearly budget must not be negative", ErrValidation)
	}
	if in.AlertThresholdPct != nil && (*in.AlertThresholdPct < 1 || *in.AlertThresholdPct > 100) {
		return fmt.Errorf("%w: alert threshold must be within 1..100", ErrValidation)
	}
	return nil
}

// Upsert lazily creates the settings row on first write.
func (s *Service) Upsert(ctx context.Context, ownerID string, in *Input) (*models.UserSettings, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var m models.UserSettings
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.UserSettings{
			ID:                tool.GenerateUUIDV7(),
			OwnerID:           ownerID,
			Currency:          "USD",
			AlertThresholdPct: defaultAlertThresholdPct,
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if in.Currency != "" {
		m.Currency = in.Currency
	}
	m.MonthlyBudget = roundBudget(in.MonthlyBudget)
	m.YearlyBudget = roundBudget(in.YearlyBudget)
	if in.AlertThresholdPct != nil {
		m.AlertThresholdPct = *in.AlertThresholdPct
	}

	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return &m, nil
}

func roundBudget(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}
