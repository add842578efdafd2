package types

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

type BudgetStatus string

const (
	BudgetStatusUnder       BudgetStatus = "under"
	BudgetStatusApproaching BudgetStatus = "approaching"
	BudgetStatusExceeded    BudgetStatus = "exceeded"
	// BudgetStatusNone means no budget is configured for the period.
	BudgetStatusNone BudgetStatus = ""
)
