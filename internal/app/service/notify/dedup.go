package notify

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/logctx"
	"github.com/subtrackr/subtrackr/pkg/tool"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// AlreadySent reports whether a notification of this kind was recorded
// inside its dedup window for the (owner, subscription) pair.
//
// Budget-level kinds use the start of the current calendar month as the
// window, for yearly budgets too: a yearly-budget alert can therefore
// resend each month. That mirrors the shipped behavior; change the window
// here if product ever wants once-per-year.
//
// Subscription-level kinds use the current calendar day.
//
// A store failure returns false: a possible duplicate send is preferred
// over silently suppressing all notifications.
func (s *Service) AlreadySent(ctx context.Context, ownerID, subscriptionID string, kind types.NotificationKind) bool {
	now := billing.Now()
	var windowStart, windowEnd time.Time
	if kind.IsBudgetKind() {
		windowStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		windowEnd = now.Add(time.Second)
	} else {
		windowStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		windowEnd = windowStart.AddDate(0, 0, 1)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.EmailNotification{}).
		Where("owner_id = ? AND subscription_id = ? AND kind = ?", ownerID, subscriptionID, kind).
		Where("sent_at >= ? AND sent_at < ?", windowStart, windowEnd).
		Count(&count).Error
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("notification dedup check failed, failing open",
			"owner_id", ownerID, "kind", kind, "err", err)
		return false
	}
	return count > 0
}

// RecordSent appends a notification record after a successful delivery.
// Bookkeeping failures are logged and swallowed: they must never break the
// request that triggered the notification.
func (s *Service) RecordSent(ctx context.Context, ownerID, subscriptionID string, kind types.NotificationKind, extra datatypes.JSONMap) {
	rec := &models.EmailNotification{
		ID:             tool.GenerateUUIDV7(),
		OwnerID:        ownerID,
		SubscriptionID: subscriptionID,
		Kind:           kind,
		SentAt:         billing.Now(),
		Extra:          extra,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to record sent notification",
			"owner_id", ownerID, "kind", kind, "err", err)
	}
}
