package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/response"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// @Summary      Export subscriptions as CSV
// @Tags         Export
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/v1/export/csv [get]
func ExportCSV(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		subs, err := svc.List(c.Request.Context(), id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"name", "cost", "billing_cycle", "next_billing_date", "category", "status", "payment_method"})
		for _, s := range subs {
			_ = w.Write([]string{
				s.Name,
				s.Cost.StringFixed(2),
				string(s.BillingCycle),
				s.NextBillingDate,
				s.Category,
				string(s.Status),
				s.PaymentMethod,
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			writeServiceError(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="subscriptions.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

// @Summary      Export renewal calendar
// @Description  An iCalendar feed with one recurring all-day event per active subscription on its next billing date.
// @Tags         Export
// @Produce      text/calendar
// @Success      200  {string}  string
// @Router       /api/v1/export/calendar [get]
func ExportCalendar(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		subs, err := svc.List(c.Request.Context(), id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		cal := ics.NewCalendar()
		cal.SetMethod(ics.MethodPublish)
		cal.SetProductId("-//subtrackr//renewals//EN")

		for _, s := range subs {
			if !s.Active() {
				continue
			}
			due, err := billing.ParseLocalDate(s.NextBillingDate)
			if err != nil {
				continue
			}
			ev := cal.AddEvent(fmt.Sprintf("renewal-%s@subtrackr", s.ID))
			ev.SetCreatedTime(billing.Now())
			ev.SetDtStampTime(billing.Now())
			ev.SetAllDayStartAt(due)
			ev.SetAllDayEndAt(due.AddDate(0, 0, 1))
			ev.SetSummary(fmt.Sprintf("%s renewal (%s)", s.Name, s.Cost.StringFixed(2)))
			ev.AddRrule(rruleFor(s.BillingCycle))
		}

		c.Header("Content-Disposition", `attachment; filename="renewals.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
	}
}

// GoogleCalendarLink is a prefilled event-creation URL for one subscription.
type GoogleCalendarLink struct {
	SubscriptionID string `json:"subscription_id"`
	Name           string `json:"name"`
	URL            string `json:"url"`
}

// @Summary      Google Calendar links
// @Description  Prefilled calendar.google.com event-creation links, one per active subscription.
// @Tags         Export
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]GoogleCalendarLink]
// @Router       /api/v1/export/google [get]
func ExportGoogleLinks(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			return
		}
		subs, err := svc.List(c.Request.Context(), id.OwnerID)
		if err != nil {
			writeServiceError(c, err)
			return
		}

		active := lo.Filter(subs, func(s *models.Subscription, _ int) bool { return s.Active() })
		links := make([]GoogleCalendarLink, 0, len(active))
		for _, s := range active {
			links = append(links, GoogleCalendarLink{
				SubscriptionID: s.ID,
				Name:           s.Name,
				URL:            googleCalendarURL(s),
			})
		}
		c.JSON(http.StatusOK, response.OKT(links))
	}
}

func rruleFor(cycle types.BillingCycle) string {
	if cycle == types.BillingCycleYearly {
		return "FREQ=YEARLY"
	}
	return "FREQ=MONTHLY"
}

func googleCalendarURL(s *models.Subscription) string {
	day := strings.ReplaceAll(s.NextBillingDate, "-", "")
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", fmt.Sprintf("%s renewal", s.Name))
	q.Set("dates", fmt.Sprintf("%s/%s", day, day))
	q.Set("details", fmt.Sprintf("%s renews at %s per %s cycle", s.Name, s.Cost.StringFixed(2), s.BillingCycle))
	q.Set("recur", "RRULE:"+rruleFor(s.BillingCycle))
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

func RegisterExportRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.GET("/export/csv", ExportCSV(svc))
	r.GET("/export/calendar", ExportCalendar(svc))
	r.GET("/export/google", ExportGoogleLinks(svc))
}
