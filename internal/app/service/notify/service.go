package notify

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/app/service/spending"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/internal/platform/mail"
	"github.com/subtrackr/subtrackr/pkg/logctx"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// Service evaluates which notifications an owner is due and dispatches
// them through the injected mail sender, gated by the dedup check.
type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	sender mail.Sender
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, sender mail.Sender) *Service {
	return &Service{db: db, log: log, sender: sender}
}

// sendOnce runs the full gate: dedup check, delivery, then bookkeeping.
// The record is written only after the provider acknowledged the send.
func (s *Service) sendOnce(ctx context.Context, id types.Identity, subscriptionID string, kind types.NotificationKind, msg *mail.Message, extra datatypes.JSONMap) {
	if s.AlreadySent(ctx, id.OwnerID, subscriptionID, kind) {
		return
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		emailSendFailures.Inc()
		logctx.FromCtx(ctx, s.log).Errorw("email send failed",
			"owner_id", id.OwnerID, "kind", kind, "err", err)
		return
	}
	emailsSent.WithLabelValues(string(kind)).Inc()
	s.RecordSent(ctx, id.OwnerID, subscriptionID, kind, extra)
}

// ProcessOwner evaluates renewal, past-due and budget notifications for one
// owner. It is dispatched as a detached task from read paths; every failure
// inside is logged, never propagated.
func (s *Service) ProcessOwner(ctx context.Context, id types.Identity, subs []*models.Subscription, summary *spending.Summary, st *models.UserSettings) error {
	if id.Email == "" {
		logctx.FromCtx(ctx, s.log).Warnw("owner has no email, skipping notifications", "owner_id", id.OwnerID)
		return nil
	}

	today := billing.Today()
	for _, sub := range subs {
		if !sub.Active() {
			continue
		}
		if billing.IsPastDue(sub.NextBillingDate, today) {
			days := billing.DaysOverdue(sub.NextBillingDate, today)
			s.sendOnce(ctx, id, sub.ID, types.NotificationKindPastDue,
				pastDueEmail(id, sub, days), datatypes.JSONMap{"days_overdue": days})
			continue
		}
		switch billing.DaysUntil(sub.NextBillingDate, today) {
		case 3:
			s.sendOnce(ctx, id, sub.ID, types.NotificationKindRenewalReminder,
				renewalReminderEmail(id, sub, 3), nil)
		case 1:
			s.sendOnce(ctx, id, sub.ID, types.NotificationKindRenewalReminder1Day,
				renewalReminderEmail(id, sub, 1), nil)
		}
	}

	s.processBudget(ctx, id, types.BudgetPeriodMonthly, summary.TotalMonthly, st.MonthlyBudget, st.AlertThresholdPct)
	s.processBudget(ctx, id, types.BudgetPeriodYearly, summary.TotalYearly, st.YearlyBudget, st.AlertThresholdPct)
	return nil
}

func (s *Service) processBudget(ctx context.Context, id types.Identity, period types.BudgetPeriod, spent decimal.Decimal, budget *decimal.Decimal, thresholdPct int) {
	status := spending.CheckBudgetStatus(spent, budget, thresholdPct)
	if status == types.BudgetStatusNone {
		return
	}
	extra := datatypes.JSONMap{
		"period": string(period),
		"spent":  spent.Round(2).String(),
		"budget": budget.Round(2).String(),
	}
	switch status {
	case types.BudgetStatusExceeded:
		s.sendOnce(ctx, id, types.BudgetLevelSubscriptionID, types.NotificationKindBudgetExceeded,
			budgetAlertEmail(id, period, status, spent, *budget), extra)
	case types.BudgetStatusApproaching:
		s.sendOnce(ctx, id, types.BudgetLevelSubscriptionID, types.NotificationKindBudgetApproaching,
			budgetAlertEmail(id, period, status, spent, *budget), extra)
	}

	// Projection alert only while not already exceeded, so the same
	// underlying overspend does not alert twice.
	if status != types.BudgetStatusExceeded {
		info := spending.BudgetPeriodInfo(period, billing.Now())
		projected := spending.ProjectedSpending(spent, info.DaysElapsed, info.TotalDays)
		if projected.GreaterThan(*budget) {
			extra["projected"] = projected.Round(2).String()
			s.sendOnce(ctx, id, types.BudgetLevelSubscriptionID, types.NotificationKindBudgetProjected,
				budgetProjectedEmail(id, period, projected, *budget), extra)
		}
	}
}

// PriceChange dispatches a price-change notice after a subscription's cost
// was edited. Called as a detached task from the update path.
func (s *Service) PriceChange(ctx context.Context, id types.Identity, sub *models.Subscription, oldCost, newCost decimal.Decimal) error {
	if id.Email == "" {
		logctx.FromCtx(ctx, s.log).Warnw("owner has no email, skipping price change notice", "owner_id", id.OwnerID)
		return nil
	}
	s.sendOnce(ctx, id, sub.ID, types.NotificationKindPriceChange,
		priceChangeEmail(id, sub, oldCost, newCost),
		datatypes.JSONMap{"old_cost": oldCost.Round(2).String(), "new_cost": newCost.Round(2).String()})
	return nil
}
