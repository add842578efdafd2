package spending

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// CheckBudgetStatus classifies period-to-date spend against a budget limit.
// A nil or non-positive budget means no budget is configured and yields
// BudgetStatusNone.
func CheckBudgetStatus(spent decimal.Decimal, budget *decimal.Decimal, thresholdPct int) types.BudgetStatus {
	if budget == nil || !budget.IsPositive() {
		return types.BudgetStatusNone
	}
	pct := spent.Div(*budget).Mul(hundred)
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return types.BudgetStatusExceeded
	case pct.GreaterThanOrEqual(decimal.NewFromInt(int64(thresholdPct))):
		return types.BudgetStatusApproaching
	default:
		return types.BudgetStatusUnder
	}
}

// PeriodInfo describes the calendar window a budget is measured over.
type PeriodInfo struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysElapsed   int    `json:"days_elapsed"`
	DaysRemaining int    `json:"days_remaining"`
	TotalDays     int    `json:"total_days"`
}

// BudgetPeriodInfo returns the current calendar month (first through last
// day) or calendar year for now. DaysElapsed is whole days from period
// start to today; TotalDays is the inclusive day count.
func BudgetPeriodInfo(period types.BudgetPeriod, now time.Time) PeriodInfo {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var start, end time.Time
	switch period {
	case types.BudgetPeriodYearly:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	default:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	}
	totalDays := wholeDays(start, end) + 1
	elapsed := wholeDays(start, today)
	return PeriodInfo{
		StartDate:     billing.FormatLocalDate(start),
		EndDate:       billing.FormatLocalDate(end),
		DaysElapsed:   elapsed,
		DaysRemaining: totalDays - elapsed - 1,
		TotalDays:     totalDays,
	}
}

// ProjectedSpending extrapolates period-to-date spend linearly to the end
// of the period. On the first day of a period (daysElapsed == 0) it returns
// the current spend unchanged rather than dividing by zero.
func ProjectedSpending(current decimal.Decimal, daysElapsed, totalDays int) decimal.Decimal {
	if daysElapsed <= 0 {
		return current
	}
	return current.Div(decimal.NewFromInt(int64(daysElapsed))).Mul(decimal.NewFromInt(int64(totalDays)))
}

func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24 + 0.5)
}
