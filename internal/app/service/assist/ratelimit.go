package assist

import (
	"context"
	"time"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/logctx"
	"github.com/subtrackr/subtrackr/pkg/tool"
)

// RateLimitResult is the outcome of a sliding-hour usage check.
type RateLimitResult struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// CheckRateLimit counts the owner's AI requests in the trailing hour. The
// budget is shared across all AI endpoints. A counting failure fails open:
// losing a few requests to abuse beats breaking the feature for everyone.
func (s *Service) CheckRateLimit(ctx context.Context, ownerID string) *RateLimitResult {
	now := billing.Now()
	limit := s.cfg.AssistLimit.HourlyMax
	windowStart := now.Add(-time.Hour)

	s.purgeExpired(ctx, now)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.AIRequest{}).
		Where("owner_id = ? AND requested_at >= ?", ownerID, windowStart).
		Count(&count).Error
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("rate limit count failed, failing open", "owner_id", ownerID, "err", err)
		return &RateLimitResult{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	// approximate sliding window: the limit frees up an hour after the
	// oldest counted request, not per-request
	resetAt := now.Add(time.Hour)
	var oldest models.AIRequest
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND requested_at >= ?", ownerID, windowStart).
		Order("requested_at asc").First(&oldest).Error; err == nil {
		resetAt = oldest.RequestedAt.Add(time.Hour)
	}

	return &RateLimitResult{
		Allowed:   int(count) < limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// RecordRequest appends one usage record; failures are logged and
// swallowed so bookkeeping never breaks the endpoint.
func (s *Service) RecordRequest(ctx context.Context, ownerID, endpoint string, inputLength int) {
	rec := &models.AIRequest{
		ID:          tool.GenerateUUIDV7(),
		OwnerID:     ownerID,
		Endpoint:    endpoint,
		RequestedAt: billing.Now(),
		InputLength: inputLength,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to record ai request", "owner_id", ownerID, "endpoint", endpoint, "err", err)
	}
}

// purgeExpired drops usage records past the retention age, best effort.
func (s *Service) purgeExpired(ctx context.Context, now time.Time) {
	cutoff := now.Add(-time.Duration(s.cfg.AssistLimit.RetentionHours) * time.Hour)
	if err := s.db.WithContext(ctx).
		Where("requested_at < ?", cutoff).
		Delete(&models.AIRequest{}).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("ai request purge failed", "err", err)
	}
}
