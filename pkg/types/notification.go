package types

// NotificationKind identifies a deduplicated email notification class.
type NotificationKind string

const (
	NotificationKindRenewalReminder     NotificationKind = "renewal_reminder"
	NotificationKindRenewalReminder1Day NotificationKind = "renewal_reminder_1day"
	NotificationKindPriceChange         NotificationKind = "price_change"
	NotificationKindPastDue             NotificationKind = "past_due"
	NotificationKindBudgetApproaching   NotificationKind = "budget_approaching"
	NotificationKindBudgetExceeded      NotificationKind = "budget_exceeded"
	NotificationKindBudgetProjected     NotificationKind = "budget_projected_exceed"
)

// BudgetLevelSubscriptionID is the sentinel subscription id for budget
// alerts that are not tied to a single subscription.
const BudgetLevelSubscriptionID = "0"

// IsBudgetKind reports whether the kind is deduplicated per budget period
// rather than per calendar day.
func (k NotificationKind) IsBudgetKind() bool {
	switch k {
	case NotificationKindBudgetApproaching, NotificationKindBudgetExceeded, NotificationKindBudgetProjected:
		return true
	}
	return false
}
