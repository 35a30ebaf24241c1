package stripe

import (
	"strings"

	"saas-api/internal/domain/plans"
)

// NormalizeStripeStatus maps a Stripe subscription status onto the statuses
// stored on users. ok is false for states that should not overwrite the
// stored status (incomplete, paused, unknown).
func NormalizeStripeStatus(status string, cancelAtPeriodEnd bool) (plans.SubscriptionStatus, bool) {
	switch strings.TrimSpace(status) {
	case "active", "trialing":
		if cancelAtPeriodEnd {
			return plans.StatusCancelAtPeriodEnd, true
		}
		return plans.StatusActive, true
	case "past_due", "unpaid":
		return plans.StatusPastDue, true
	case "canceled", "incomplete_expired":
		return plans.StatusDeleted, true
	default:
		return "", false
	}
}
