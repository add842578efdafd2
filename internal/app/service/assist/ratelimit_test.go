package assist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/internal/testutil"
	"github.com/subtrackr/subtrackr/pkg/config"
)

func fixedClock(t *testing.T, stamp time.Time) {
	t.Helper()
	prev := billing.Now
	billing.Now = func() time.Time { return stamp }
	t.Cleanup(func() { billing.Now = prev })
}

func testConfig() *config.Config {
	return &config.Config{
		AssistLimit: config.AssistLimitConfig{HourlyMax: 25, RetentionHours: 24},
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewService(testConfig(), db, testutil.Logger(t), nil), db
}

func TestRateLimitDeniesAtCap(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	for i := 0; i < 25; i++ {
		fixedClock(t, base.Add(time.Duration(i)*time.Minute))
		res := svc.CheckRateLimit(ctx, "owner-1")
		require.True(t, res.Allowed, "request %d", i)
		require.Equal(t, 25-i, res.Remaining)
		svc.RecordRequest(ctx, "owner-1", "parse", 10)
	}

	fixedClock(t, base.Add(30*time.Minute))
	res := svc.CheckRateLimit(ctx, "owner-1")
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	// the window frees up an hour after the oldest counted request
	require.Equal(t, base.Add(time.Hour), res.ResetAt)
}

func TestRateLimitWindowSlides(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	fixedClock(t, base)
	for i := 0; i < 25; i++ {
		svc.RecordRequest(ctx, "owner-1", "parse", 10)
	}
	fixedClock(t, base.Add(30*time.Minute))
	require.False(t, svc.CheckRateLimit(ctx, "owner-1").Allowed)

	// an hour after the burst every slot is free again
	fixedClock(t, base.Add(61*time.Minute))
	res := svc.CheckRateLimit(ctx, "owner-1")
	require.True(t, res.Allowed)
	require.Equal(t, 25, res.Remaining)
}

func TestRateLimitIsPerOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	fixedClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local))

	for i := 0; i < 25; i++ {
		svc.RecordRequest(ctx, "owner-1", "parse", 10)
	}
	require.False(t, svc.CheckRateLimit(ctx, "owner-1").Allowed)
	require.True(t, svc.CheckRateLimit(ctx, "owner-2").Allowed)
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	svc, db := newTestService(t)
	fixedClock(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local))

	require.NoError(t, db.Migrator().DropTable(&models.AIRequest{}))
	res := svc.CheckRateLimit(context.Background(), "owner-1")
	require.True(t, res.Allowed)
	require.Equal(t, 25, res.Remaining)
}

func TestRateLimitPurgesOldRecords(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

	fixedClock(t, base.Add(-30*time.Hour))
	svc.RecordRequest(ctx, "owner-1", "parse", 10)
	fixedClock(t, base)
	svc.RecordRequest(ctx, "owner-1", "parse", 10)

	svc.CheckRateLimit(ctx, "owner-1")

	var count int64
	require.NoError(t, db.Model(&models.AIRequest{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
