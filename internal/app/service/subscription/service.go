package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/logctx"
	"github.com/subtrackr/subtrackr/pkg/tool"
	"github.com/subtrackr/subtrackr/pkg/types"
)

var (
	// ErrNotFound means no row matches the (owner, id) pair.
	ErrNotFound = errors.New("subscription not found")
	// ErrValidation reports rejected input.
	ErrValidation = errors.New("invalid subscription")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// owned is the single chokepoint for owner scoping: every subscription
// query goes through it, so no query path can forget the owner filter.
func (s *Service) owned(ctx context.Context, ownerID string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Subscription{}).Where("owner_id = ?", ownerID)
}

// Input carries user-supplied subscription fields for create and update.
type Input struct {
	Name            string                   `json:"name"`
	Cost            decimal.Decimal          `json:"cost"`
	BillingCycle    types.BillingCycle       `json:"billing_cycle"`
	NextBillingDate string                   `json:"next_billing_date"`
	Category        string                   `json:"category"`
	Status          types.SubscriptionStatus `json:"status"`
	PaymentMethod   string                   `json:"payment_method"`
	Icon            string                   `json:"icon"`
}

func (in *Input) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	if !in.BillingCycle.Valid() {
		return fmt.Errorf("%w: billing cycle must be monthly or yearly", ErrValidation)
	}
	if _, err := billing.ParseLocalDate(in.NextBillingDate); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	// empty means "not specified": create defaults it, update keeps the
	// stored status
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	return nil
}

func (in *Input) apply(m *models.Subscription) {
	m.Name = in.Name
	m.Cost = in.Cost.Round(2)
	m.BillingCycle = in.BillingCycle
	m.NextBillingDate = in.NextBillingDate
	m.Category = in.Category
	if in.Status != "" {
		m.Status = in.Status
	}
	m.PaymentMethod = in.PaymentMethod
	m.Icon = in.Icon
}

func (s *Service) Create(ctx context.Context, ownerID string, in *Input) (*models.Subscription, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &models.Subscription{
		ID:      tool.GenerateUUIDV7(),
		OwnerID: ownerID,
		Status:  types.SubscriptionStatusActive,
	}
	in.apply(m)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.Subscription, error) {
	var m models.Subscription
	if err := s.owned(ctx, ownerID).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &m, nil
}

// UpdateResult reports the persisted row plus the previous cost so callers
// can trigger a price-change notification when it moved.
type UpdateResult struct {
	Subscription *models.Subscription
	OldCost      decimal.Decimal
	CostChanged  bool
}

func (s *Service) Update(ctx context.Context, ownerID, id string, in *Input) (*UpdateResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	oldCost := m.Cost
	in.apply(m)
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	return &UpdateResult{
		Subscription: m,
		OldCost:      oldCost,
		CostChanged:  !oldCost.Equal(m.Cost),
	}, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	res := s.owned(ctx, ownerID).Where("id = ?", id).Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the owner's subscriptions with past-due rows auto-renewed.
func (s *Service) List(ctx context.Context, ownerID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.owned(ctx, ownerID).Order("next_billing_date asc, name asc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return s.AutoRenewPastDue(ctx, ownerID, subs), nil
}

// AutoRenewPastDue advances every active past-due subscription by exactly
// one cycle from its stored date. A row that is several cycles behind stays
// in the past and advances again on a later read; there is deliberately no
// catch-up loop. Any persistence failure is logged and the original list is
// returned untouched: a failed side effect must never break the read.
func (s *Service) AutoRenewPastDue(ctx context.Context, ownerID string, subs []*models.Subscription) []*models.Subscription {
	today := billing.Today()
	var dueIDs []string
	advanced := map[string]string{}
	for _, sub := range subs {
		if !sub.Active() || !billing.IsPastDue(sub.NextBillingDate, today) {
			continue
		}
		next, err := billing.AddOneCycle(sub.NextBillingDate, sub.BillingCycle)
		if err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("auto-renew: skipping unparseable date",
				"subscription_id", sub.ID, "next_billing_date", sub.NextBillingDate, "err", err)
			continue
		}
		dueIDs = append(dueIDs, sub.ID)
		advanced[sub.ID] = next
	}
	if len(dueIDs) == 0 {
		return subs
	}

	for id, next := range advanced {
		if err := s.owned(ctx, ownerID).Where("id = ?", id).
			Update("next_billing_date", next).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("auto-renew: persist failed, returning original rows",
				"subscription_id", id, "err", err)
			return subs
		}
	}

	var refreshed []*models.Subscription
	if err := s.owned(ctx, ownerID).Where("id IN ?", dueIDs).Find(&refreshed).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("auto-renew: re-fetch failed, returning original rows", "err", err)
		return subs
	}
	byID := make(map[string]*models.Subscription, len(refreshed))
	for _, r := range refreshed {
		byID[r.ID] = r
	}
	// merge positionally: untouched rows keep their slot
	merged := make([]*models.Subscription, len(subs))
	for i, sub := range subs {
		if r, ok := byID[sub.ID]; ok {
			merged[i] = r
		} else {
			merged[i] = sub
		}
	}
	return merged
}
