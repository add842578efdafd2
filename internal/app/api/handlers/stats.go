package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/app/service/notify"
	"github.com/subtrackr/subtrackr/internal/app/service/settings"
	"github.com/subtrackr/subtrackr/internal/app/service/spending"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/response"
	"github.com/subtrackr/subtrackr/pkg/tool"
	"github.com/subtrackr/subtrackr/pkg/types"
)

const upcomingWindowDays = 7

// BudgetReport is one period's budget position: spend so far, the limit,
// how the two compare, and a linear projection to period end.
type BudgetReport struct {
	Period    types.BudgetPeriod  `json:"period"`
	Spent     decimal.Decimal     `json:"spent"`
	Budget    *decimal.Decimal    `json:"budget"`
	Status    types.BudgetStatus  `json:"status"`
	Projected decimal.Decimal     `json:"projected"`
	Info      spending.PeriodInfo `json:"info"`
}

// StatsResponse is the dashboard payload.
type StatsResponse struct {
	TotalMonthly  decimal.Decimal          `json:"total_monthly"`
	TotalYearly   decimal.Decimal          `json:"total_yearly"`
	Categories    []spending.CategorySpend `json:"categories"`
	MonthlyBudget BudgetReport             `json:"monthly_budget"`
	YearlyBudget  BudgetReport             `json:"yearly_budget"`
	Upcoming      []*models.Subscription   `json:"upcoming"`
	PastDue       []*models.Subscription   `json:"past_due"`
}

// @Summary      Spending statistics
// @Description  Totals, category breakdown, budget position for both periods, and upcoming/past-due subscriptions. Reading stats also evaluates notification conditions off the request path.
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  response.APIResponse[StatsResponse]
// @Router       /api/v1/stats [get]
func GetStats(subSvc *subsvc.Service, settingsSvc *settings.Service, notifier *notify.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		subs, err := subSvc.List(ctx, id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		st, err := settingsSvc.Get(ctx, id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		summary := spending.Aggregate(subs)
		now := billing.Now()
		today := billing.Today()

		out := &StatsResponse{
			TotalMonthly:  summary.TotalMonthly.Round(2),
			TotalYearly:   summary.TotalYearly.Round(2),
			Categories:    summary.Categories,
			MonthlyBudget: budgetReport(types.BudgetPeriodMonthly, summary.TotalMonthly, st.MonthlyBudget, st.AlertThresholdPct, now),
			YearlyBudget:  budgetReport(types.BudgetPeriodYearly, summary.TotalYearly, st.YearlyBudget, st.AlertThresholdPct, now),
			Upcoming: lo.Filter(subs, func(s *models.Subscription, _ int) bool {
				return s.Active() && billing.DueInWindow(s.NextBillingDate, today, upcomingWindowDays)
			}),
			PastDue: lo.Filter(subs, func(s *models.Subscription, _ int) bool {
				return s.Active() && billing.IsPastDue(s.NextBillingDate, today)
			}),
		}

		// notifications ride on the stats read instead of a scheduler
		caller := id
		tool.Detach(log, "notification_sweep", func() error {
			return notifier.ProcessOwner(context.Background(), caller, subs, summary, st)
		})

		c.JSON(http.StatusOK, response.OKT(out))
	}
}

func budgetReport(period types.BudgetPeriod, spent decimal.Decimal, budget *decimal.Decimal, thresholdPct int, now time.Time) BudgetReport {
	info := spending.BudgetPeriodInfo(period, now)
	return BudgetReport{
		Period:    period,
		Spent:     spent.Round(2),
		Budget:    budget,
		Status:    spending.CheckBudgetStatus(spent, budget, thresholdPct),
		Projected: spending.ProjectedSpending(spent, info.DaysElapsed, info.TotalDays).Round(2),
		Info:      info,
	}
}

func RegisterStatsRoutes(r gin.IRouter, subSvc *subsvc.Service, settingsSvc *settings.Service, notifier *notify.Service, log *zap.SugaredLogger) {
	r.GET("/stats", GetStats(subSvc, settingsSvc, notifier, log))
}
