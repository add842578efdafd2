package spending

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/types"
)

func sub(name string, cost string, cycle types.BillingCycle, status types.SubscriptionStatus, category string) *models.Subscription {
	return &models.Subscription{
		Name:         name,
		Cost:         decimal.RequireFromString(cost),
		BillingCycle: cycle,
		Status:       status,
		Category:     category,
	}
}

func TestAggregate_NoDoubleCounting(t *testing.T) {
	subs := []*models.Subscription{
		sub("netflix", "15.99", types.BillingCycleMonthly, types.SubscriptionStatusActive, "Streaming"),
		sub("domain", "120.00", types.BillingCycleYearly, types.SubscriptionStatusActive, "Infra"),
	}
	s := Aggregate(subs)

	// a yearly subscription contributes nothing to the monthly total
	require.True(t, s.TotalMonthly.Equal(decimal.RequireFromString("15.99")), s.TotalMonthly.String())
	// annualized total counts yearly cost once, monthly twelve times
	require.True(t, s.TotalYearly.Equal(decimal.RequireFromString("311.88")), s.TotalYearly.String())
}

func TestAggregate_SkipsInactive(t *testing.T) {
	subs := []*models.Subscription{
		sub("active", "10.00", types.BillingCycleMonthly, types.SubscriptionStatusActive, ""),
		sub("cancelled", "99.00", types.BillingCycleMonthly, types.SubscriptionStatusCancelled, ""),
		sub("paused", "50.00", types.BillingCycleMonthly, types.SubscriptionStatusPaused, ""),
	}
	s := Aggregate(subs)
	require.True(t, s.TotalMonthly.Equal(decimal.RequireFromString("10.00")))
}

func TestAggregate_CategoriesNormalizedAndSorted(t *testing.T) {
	subs := []*models.Subscription{
		sub("icloud", "2.99", types.BillingCycleMonthly, types.SubscriptionStatusActive, ""),
		sub("spotify", "11.99", types.BillingCycleMonthly, types.SubscriptionStatusActive, "Music"),
		sub("jetbrains", "120.00", types.BillingCycleYearly, types.SubscriptionStatusActive, "Tools"),
	}
	s := Aggregate(subs)

	require.Len(t, s.Categories, 3)
	// descending by monthly-normalized amount
	require.Equal(t, "Music", s.Categories[0].Category)
	require.Equal(t, "Tools", s.Categories[1].Category)
	require.True(t, s.Categories[1].Monthly.Equal(decimal.RequireFromString("10.00")))
	require.Equal(t, UncategorizedLabel, s.Categories[2].Category)
}

func TestAggregate_RoundingAtBoundaryOnly(t *testing.T) {
	// three yearly costs of 100 each: 100/12 truncated per-item would lose
	// cents; accumulation is exact, rounding happens once
	subs := []*models.Subscription{
		sub("a", "100.00", types.BillingCycleYearly, types.SubscriptionStatusActive, "X"),
		sub("b", "100.00", types.BillingCycleYearly, types.SubscriptionStatusActive, "X"),
		sub("c", "100.00", types.BillingCycleYearly, types.SubscriptionStatusActive, "X"),
	}
	s := Aggregate(subs)
	require.Len(t, s.Categories, 1)
	require.True(t, s.Categories[0].Monthly.Equal(decimal.RequireFromString("25.00")), s.Categories[0].Monthly.String())
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)
	require.True(t, s.TotalMonthly.IsZero())
	require.True(t, s.TotalYearly.IsZero())
	require.Empty(t, s.Categories)
}
