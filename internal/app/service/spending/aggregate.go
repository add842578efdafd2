// Package spending reduces a user's subscriptions into spend totals and
// compares them against configured budgets.
package spending

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// UncategorizedLabel is the bucket for subscriptions without a category.
const UncategorizedLabel = "Uncategorized"

var twelve = decimal.NewFromInt(12)

// CategorySpend is one category's normalized monthly cost (yearly-cycle
// subscriptions contribute cost/12), rounded to 2 decimal places.
type CategorySpend struct {
	Category string          `json:"category"`
	Monthly  decimal.Decimal `json:"monthly"`
}

// Summary aggregates active subscriptions. TotalYearly is the annualized
// total: monthly costs times twelve plus yearly costs counted once.
type Summary struct {
	TotalMonthly   decimal.Decimal `json:"total_monthly"`
	TotalYearlyRaw decimal.Decimal `json:"-"`
	TotalYearly    decimal.Decimal `json:"total_yearly"`
	Categories     []CategorySpend `json:"categories"`
}

// Aggregate reduces subscriptions (already auto-renewed by the caller) to a
// Summary. Only active rows count. Accumulation is unrounded; rounding
// happens once at the reporting boundary.
func Aggregate(subs []*models.Subscription) *Summary {
	active := lo.Filter(subs, func(s *models.Subscription, _ int) bool { return s.Active() })

	totalMonthly := decimal.Zero
	totalYearlyRaw := decimal.Zero
	perCategory := map[string]decimal.Decimal{}

	for _, sub := range active {
		category := sub.Category
		if category == "" {
			category = UncategorizedLabel
		}
		switch sub.BillingCycle {
		case types.BillingCycleMonthly:
			totalMonthly = totalMonthly.Add(sub.Cost)
			perCategory[category] = perCategory[category].Add(sub.Cost)
		case types.BillingCycleYearly:
			totalYearlyRaw = totalYearlyRaw.Add(sub.Cost)
			perCategory[category] = perCategory[category].Add(sub.Cost.Div(twelve))
		}
	}

	categories := make([]CategorySpend, 0, len(perCategory))
	for name, amount := range perCategory {
		categories = append(categories, CategorySpend{Category: name, Monthly: amount.Round(2)})
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Monthly.Equal(categories[j].Monthly) {
			return categories[i].Monthly.GreaterThan(categories[j].Monthly)
		}
		return categories[i].Category < categories[j].Category
	})

	return &Summary{
		TotalMonthly:   totalMonthly,
		TotalYearlyRaw: totalYearlyRaw,
		TotalYearly:    totalMonthly.Mul(twelve).Add(totalYearlyRaw),
		Categories:     categories,
	}
}
