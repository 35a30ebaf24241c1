package stripewebhooks

import (
	"context"
	"encoding/json"

	"saas-api/internal/app/deps"
	"saas-api/internal/domain/billing"
	"saas-api/internal/infra/events"
	stripestatus "saas-api/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleSubscriptionUpdated(ctx context.Context, tx *gorm.DB, raw json.RawMessage) ([]events.Event, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, ignored("parse subscription: %v", err)
	}

	cusID := customerID(sub.Customer)
	if cusID == "" {
		return nil, ignored("subscription %s has no customer", sub.ID)
	}

	status, ok := stripestatus.NormalizeStripeStatus(string(sub.Status), sub.CancelAtPeriodEnd)
	if !ok {
		// incomplete and paused subscriptions leave the stored status alone
		return nil, nil
	}

	details := billing.PaymentDetails{
		UserStripeID:       cusID,
		SubscriptionStatus: &status,
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		if plan, ok := deps.Plans.PlanByPriceID(sub.Items.Data[0].Price.ID); ok && !plan.IsCredits() {
			planID := plan.ID
			details.SubscriptionPlan = &planID
		}
	}

	_, err := billing.UpdateUserStripePaymentDetails(ctx, tx, details)
	return nil, err
}
