package subscription

import (
	"context"
	"fmt"

	"github.com/subtrackr/subtrackr/internal/app/service/billing"
	"github.com/subtrackr/subtrackr/internal/models"
	"github.com/subtrackr/subtrackr/pkg/types"
)

// RenewNow handles an explicit "mark as paid": one cycle forward from the
// stored date. The computed date must land strictly after today, which
// rejects a corrupted or already-future record that would otherwise produce
// a non-advancing renewal.
func (s *Service) RenewNow(ctx context.Context, ownerID, id string) (*models.Subscription, error) {
	m, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if m.Status != types.SubscriptionStatusActive {
		return nil, fmt.Errorf("%w: only active subscriptions can be renewed", ErrValidation)
	}
	next, err := billing.AddOneCycle(m.NextBillingDate, m.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if next <= billing.FormatLocalDate(billing.Today()) {
		return nil, fmt.Errorf("%w: renewal would not advance past today (next %s)", ErrValidation, next)
	}
	m.NextBillingDate = next
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("failed to renew subscription: %w", err)
	}
	return m, nil
}
