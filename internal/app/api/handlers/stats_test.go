package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	mw "github.com/subtrackr/subtrackr/internal/app/api/middleware"
	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/app/service/notify"
	"github.com/subtrackr/subtrackr/internal/app/service/settings"
	subsvc "github.com/subtrackr/subtrackr/internal/app/service/subscription"
	"github.com/subtrackr/subtrackr/internal/platform/mail"
	"github.com/subtrackr/subtrackr/internal/testutil"
	"github.com/subtrackr/subtrackr/pkg/types"
)

type dropSender struct{}

func (dropSender) Send(_ context.Context, _ *mail.Message) error { return nil }

func fixedClock(t *testing.T, stamp time.Time) {
	t.Helper()
	prev := billing.Now
	billing.Now = func() time.Time { return stamp }
	t.Cleanup(func() { billing.Now = prev })
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)
	log := testutil.Logger(t)

	subSvc := subsvc.NewService(db, log)
	settingsSvc := settings.NewService(db, log)
	notifier := notify.NewService(db, log, dropSender{})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(mw.IdentityKey, types.Identity{OwnerID: "owner-1", Email: "o@example.com", FirstName: "Ada"})
		c.Next()
	})
	api := r.Group("/api/v1")
	RegisterSubscriptionRoutes(api, subSvc, notifier, log)
	RegisterStatsRoutes(api, subSvc, settingsSvc, notifier, log)
	RegisterSettingsRoutes(api, settingsSvc)
	RegisterExportRoutes(api, subSvc)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatsEndToEnd(t *testing.T) {
	fixedClock(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local))
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/subscriptions", map[string]any{
		"name":              "netflix",
		"cost":              "15.99",
		"billing_cycle":     "monthly",
		"next_billing_date": "2025-06-13",
		"category":          "Streaming",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Code int           `json:"code"`
		Data StatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Zero(t, envelope.Code)
	require.Equal(t, "15.99", envelope.Data.TotalMonthly.StringFixed(2))
	require.Equal(t, "191.88", envelope.Data.TotalYearly.StringFixed(2))
	require.Len(t, envelope.Data.Upcoming, 1)
	require.Equal(t, "netflix", envelope.Data.Upcoming[0].Name)
	require.Empty(t, envelope.Data.PastDue)
	require.Equal(t, types.BudgetStatusNone, envelope.Data.MonthlyBudget.Status)
}

func TestStatsReflectsBudgetSettings(t *testing.T) {
	fixedClock(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local))
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/subscriptions", map[string]any{
		"name":              "everything",
		"cost":              "90",
		"billing_cycle":     "monthly",
		"next_billing_date": "2025-06-25",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/api/v1/settings", map[string]any{
		"monthly_budget": "100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data StatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, types.BudgetStatusApproaching, envelope.Data.MonthlyBudget.Status)
	require.NotNil(t, envelope.Data.MonthlyBudget.Budget)
}

func TestSubscriptionCRUDOverHTTP(t *testing.T) {
	fixedClock(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local))
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/subscriptions", map[string]any{
		"name":              "spotify",
		"cost":              "11.99",
		"billing_cycle":     "monthly",
		"next_billing_date": "2025-07-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/subscriptions/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "spotify")

	w = doJSON(t, r, http.MethodPost, "/api/v1/subscriptions/"+created.Data.ID+"/renew", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "2025-08-01")

	w = doJSON(t, r, http.MethodDelete, "/api/v1/subscriptions/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/subscriptions/"+created.Data.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSubscriptionRejectsBadDate(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/subscriptions", map[string]any{
		"name":              "bad",
		"cost":              "1",
		"billing_cycle":     "monthly",
		"next_billing_date": "2025-02-30",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSV(t *testing.T) {
	fixedClock(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local))
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/subscriptions", map[string]any{
		"name":              "netflix",
		"cost":              "15.99",
		"billing_cycle":     "monthly",
		"next_billing_date": "2025-06-13",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Body.String(), "netflix,15.99,monthly,2025-06-13")
}

func TestExportCalendar(t *testing.T) {
	fixedClock(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/subscriptions", map[string]any{
		"name":              "netflix",
		"cost":              "15.99",
		"billing_cycle":     "monthly",
		"next_billing_date": "2025-06-13",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/export/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	require.Contains(t, w.Body.String(), "RRULE:FREQ=MONTHLY")
	require.Contains(t, w.Body.String(), "netflix renewal")
	// event stamps come from the injectable clock, not the wall clock
	require.Contains(t, w.Body.String(), "DTSTAMP:20250610T090000Z")
}
