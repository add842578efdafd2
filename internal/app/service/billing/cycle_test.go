package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/subtrackr/subtrackr/pkg/types"
)

func TestAddOneCycle_MonthEndClamp(t *testing.T) {
	got, err := AddOneCycle("2024-01-31", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "2024-02-29", got)

	got, err = AddOneCycle("2025-01-31", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "2025-02-28", got)

	got, err = AddOneCycle("2024-03-31", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "2024-04-30", got)
}

func TestAddOneCycle_LeapDayYearly(t *testing.T) {
	got, err := AddOneCycle("2024-02-29", types.BillingCycleYearly)
	require.NoError(t, err)
	require.Equal(t, "2025-02-28", got)
}

func TestAddOneCycle_PlainAdvance(t *testing.T) {
	got, err := AddOneCycle("2025-03-15", types.BillingCycleMonthly)
	require.NoError(t, err)
	require.Equal(t, "2025-04-15", got)

	got, err = AddOneCycle("2025-03-15", types.BillingCycleYearly)
	require.NoError(t, err)
	require.Equal(t, "2026-03-15", got)
}

func TestAddOneCycle_AlwaysStrictlyAfter(t *testing.T) {
	cur := "2024-01-31"
	for i := 0; i < 48; i++ {
		next, err := AddOneCycle(cur, types.BillingCycleMonthly)
		require.NoError(t, err)
		require.Greater(t, next, cur)
		cur = next
	}
}

func TestAddOneCycle_RejectsBadInput(t *testing.T) {
	_, err := AddOneCycle("2024-02-30", types.BillingCycleMonthly)
	require.ErrorIs(t, err, ErrMalformedDate)

	_, err = AddOneCycle("not-a-date", types.BillingCycleMonthly)
	require.ErrorIs(t, err, ErrMalformedDate)

	_, err = AddOneCycle("2024-05-01", types.BillingCycle("weekly"))
	require.Error(t, err)
}

func TestParseLocalDate_LocalMidnight(t *testing.T) {
	d, err := ParseLocalDate("2025-06-01")
	require.NoError(t, err)
	require.Equal(t, time.Local, d.Location())
	require.Equal(t, 0, d.Hour())
	require.Equal(t, "2025-06-01", FormatLocalDate(d))
}

func TestParseLocalDate_Rejections(t *testing.T) {
	for _, in := range []string{"", "2024-1-05", "2024-13-01", "2024-00-10", "2024-02-30", "20240230", "2024-02-05T00:00:00Z", "+024-01-02", "2024-+1-02", "2024-01--2", "0x24-01-02"} {
		_, err := ParseLocalDate(in)
		require.ErrorIs(t, err, ErrMalformedDate, "input %q", in)
	}
}

func TestDueWindowAndOverdue(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local)

	require.True(t, DueInWindow("2025-06-10", today, 7))
	require.True(t, DueInWindow("2025-06-17", today, 7))
	require.False(t, DueInWindow("2025-06-18", today, 7))
	require.False(t, DueInWindow("2025-06-09", today, 7))

	require.True(t, IsPastDue("2025-06-09", today))
	require.False(t, IsPastDue("2025-06-10", today))

	require.Equal(t, 0, DaysOverdue("2025-06-10", today))
	require.Equal(t, 1, DaysOverdue("2025-06-09", today))
	require.Equal(t, 10, DaysOverdue("2025-05-31", today))

	require.Equal(t, 0, DaysUntil("2025-06-09", today))
	require.Equal(t, 3, DaysUntil("2025-06-13", today))
}
