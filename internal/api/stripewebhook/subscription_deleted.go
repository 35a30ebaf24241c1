package stripewebhooks

import (
	"context"
	"encoding/json"

	"saas-api/internal/domain/billing"
	"saas-api/internal/domain/plans"
	"saas-api/internal/infra/events"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleSubscriptionDeleted(ctx context.Context, tx *gorm.DB, raw json.RawMessage) ([]events.Event, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, ignored("parse subscription: %v", err)
	}

	cusID := customerID(sub.Customer)
	if cusID == "" {
		return nil, ignored("subscription %s has no customer", sub.ID)
	}

	status := plans.StatusDeleted
	_, err := billing.UpdateUserStripePaymentDetails(ctx, tx, billing.PaymentDetails{
		UserStripeID:       cusID,
		SubscriptionStatus: &status,
	})
	return nil, err
}
