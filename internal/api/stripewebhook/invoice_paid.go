package stripewebhooks

import (
	"context"
	"encoding/json"
	"time"

	"saas-api/internal/domain/billing"
	"saas-api/internal/infra/events"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

func handleInvoicePaid(ctx context.Context, tx *gorm.DB, raw json.RawMessage) ([]events.Event, error) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return nil, ignored("parse invoice: %v", err)
	}

	cusID := customerID(invoice.Customer)
	if cusID == "" {
		return nil, ignored("invoice %s has no customer", invoice.ID)
	}

	paidAt := time.Now().UTC()
	if invoice.StatusTransitions != nil && invoice.StatusTransitions.PaidAt > 0 {
		paidAt = time.Unix(invoice.StatusTransitions.PaidAt, 0).UTC()
	}

	_, err := billing.UpdateUserStripePaymentDetails(ctx, tx, billing.PaymentDetails{
		UserStripeID: cusID,
		DatePaid:     &paidAt,
	})
	return nil, err
}
