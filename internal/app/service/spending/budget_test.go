package spending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/pkg/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func budgetPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCheckBudgetStatus(t *testing.T) {
	require.Equal(t, types.BudgetStatusNone, CheckBudgetStatus(dec("50"), nil, 80))
	require.Equal(t, types.BudgetStatusNone, CheckBudgetStatus(dec("50"), budgetPtr("0"), 80))

	require.Equal(t, types.BudgetStatusUnder, CheckBudgetStatus(dec("79.99"), budgetPtr("100"), 80))
	// threshold boundary is inclusive
	require.Equal(t, types.BudgetStatusApproaching, CheckBudgetStatus(dec("80"), budgetPtr("100"), 80))
	require.Equal(t, types.BudgetStatusApproaching, CheckBudgetStatus(dec("99.99"), budgetPtr("100"), 80))
	// exactly at budget is exceeded
	require.Equal(t, types.BudgetStatusExceeded, CheckBudgetStatus(dec("100"), budgetPtr("100"), 80))
	require.Equal(t, types.BudgetStatusExceeded, CheckBudgetStatus(dec("250"), budgetPtr("100"), 80))
}

func TestBudgetPeriodInfo_Monthly(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.Local)
	info := BudgetPeriodInfo(types.BudgetPeriodMonthly, now)

	require.Equal(t, "2025-06-01", info.StartDate)
	require.Equal(t, "2025-06-30", info.EndDate)
	require.Equal(t, 30, info.TotalDays)
	require.Equal(t, 9, info.DaysElapsed)
	require.Equal(t, 20, info.DaysRemaining)
}

func TestBudgetPeriodInfo_Yearly(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)
	info := BudgetPeriodInfo(types.BudgetPeriodYearly, now)

	require.Equal(t, "2024-01-01", info.StartDate)
	require.Equal(t, "2024-12-31", info.EndDate)
	require.Equal(t, 366, info.TotalDays)
	require.Equal(t, 31, info.DaysElapsed)
}

func TestProjectedSpending(t *testing.T) {
	// first day of the period: no extrapolation
	require.True(t, ProjectedSpending(dec("100"), 0, 30).Equal(dec("100")))
	// a third of the way through, spend triples
	require.True(t, ProjectedSpending(dec("100"), 10, 30).Equal(dec("300")))
	require.True(t, ProjectedSpending(dec("0"), 15, 30).IsZero())
}
