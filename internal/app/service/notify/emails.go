package notify

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/internal/platform/mail"
	"github.com/subtrackr/subtrackr/pkg/types"
)

func greeting(id types.Identity) string {
	if id.FirstName != "" {
		return fmt.Sprintf("Hi %s,", id.FirstName)
	}
	return "Hi,"
}

func renewalReminderEmail(id types.Identity, sub *models.Subscription, days int) *mail.Message {
	noun := "days"
	if days == 1 {
		noun = "day"
	}
	return &mail.Message{
		To:      id.Email,
		Subject: fmt.Sprintf("%s renews in %d %s", sub.Name, days, noun),
		HTML: fmt.Sprintf(
			`<p>%s</p><p><strong>%s</strong> renews on %s for <strong>%s</strong>.</p>`,
			greeting(id), sub.Name, sub.NextBillingDate, sub.Cost.Round(2).StringFixed(2)),
	}
}

func pastDueEmail(id types.Identity, sub *models.Subscription, daysOverdue int) *mail.Message {
	return &mail.Message{
		To:      id.Email,
		Subject: fmt.Sprintf("%s payment is past due", sub.Name),
		HTML: fmt.Sprintf(
			`<p>%s</p><p><strong>%s</strong> was due on %s (%d day(s) ago). Mark it as paid if the charge went through.</p>`,
			greeting(id), sub.Name, sub.NextBillingDate, daysOverdue),
	}
}

func priceChangeEmail(id types.Identity, sub *models.Subscription, oldCost, newCost decimal.Decimal) *mail.Message {
	return &mail.Message{
		To:      id.Email,
		Subject: fmt.Sprintf("Price change for %s", sub.Name),
		HTML: fmt.Sprintf(
			`<p>%s</p><p><strong>%s</strong> changed from %s to <strong>%s</strong> per %s cycle.</p>`,
			greeting(id), sub.Name, oldCost.StringFixed(2), newCost.StringFixed(2), sub.BillingCycle),
	}
}

func budgetAlertEmail(id types.Identity, period types.BudgetPeriod, status types.BudgetStatus, spent, budget decimal.Decimal) *mail.Message {
	verb := "is approaching"
	if status == types.BudgetStatusExceeded {
		verb = "has exceeded"
	}
	return &mail.Message{
		To:      id.Email,
		Subject: fmt.Sprintf("Your %s budget %s its limit", period, verb),
		HTML: fmt.Sprintf(
			`<p>%s</p><p>Your %s spending %s your budget: <strong>%s</strong> of %s.</p>`,
			greeting(id), period, verb, spent.Round(2).StringFixed(2), budget.StringFixed(2)),
	}
}

func budgetProjectedEmail(id types.Identity, period types.BudgetPeriod, projected, budget decimal.Decimal) *mail.Message {
	return &mail.Message{
		To:      id.Email,
		Subject: fmt.Sprintf("Projected to exceed your %s budget", period),
		HTML: fmt.Sprintf(
			`<p>%s</p><p>At the current pace your %s spending is projected to reach <strong>%s</strong>, above your %s budget.</p>`,
			greeting(id), period, projected.Round(2).StringFixed(2), budget.StringFixed(2)),
	}
}
