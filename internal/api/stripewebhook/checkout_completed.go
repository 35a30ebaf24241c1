package stripewebhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"saas-api/internal/app/deps"
	"saas-api/internal/domain/billing"
	"saas-api/internal/domain/plans"
	"saas-api/internal/infra/events"
	"saas-api/logger"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fetchCheckoutSession is replaced in tests.
var fetchCheckoutSession = checkoutsession.Get

func handleCheckoutSessionCompleted(ctx context.Context, tx *gorm.DB, raw json.RawMessage) ([]events.Event, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, ignored("parse checkout session: %v", err)
	}
	if session.ID == "" {
		return nil, ignored("checkout session without id")
	}

	fullSession, err := fetchCheckoutSession(session.ID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
			Expand: []*string{
				stripe.String("line_items"),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expanded checkout session: %w", err)
	}

	cusID := customerID(fullSession.Customer)
	if cusID == "" {
		cusID = customerID(session.Customer)
	}
	if cusID == "" {
		return nil, ignored("checkout session %s has no customer", session.ID)
	}
	if fullSession.LineItems == nil || len(fullSession.LineItems.Data) == 0 {
		return nil, ignored("checkout session %s has no line items", session.ID)
	}

	// one priced line item per session, the first one we know wins
	var (
		plan     plans.Plan
		quantity int64
		found    bool
	)
	for _, item := range fullSession.LineItems.Data {
		if item == nil || item.Price == nil {
			continue
		}
		if p, ok := deps.Plans.PlanByPriceID(item.Price.ID); ok {
			plan, quantity, found = p, item.Quantity, true
			break
		}
		logger.Get().Warn("unknown stripe price on checkout", zap.String("price_id", item.Price.ID))
	}
	if !found {
		return nil, ignored("no known price on checkout session %s", session.ID)
	}
	if quantity < 1 {
		quantity = 1
	}

	now := time.Now().UTC()
	details := billing.PaymentDetails{
		UserStripeID: cusID,
		DatePaid:     &now,
	}

	var purchased decimal.Decimal
	if plan.IsCredits() {
		purchased = decimal.NewFromInt(plan.Effect.Credits * quantity)
		details.NumOfCreditsPurchased = &purchased
	} else {
		planID, status := plan.ID, plans.StatusActive
		details.SubscriptionPlan = &planID
		details.SubscriptionStatus = &status
	}

	user, err := billing.UpdateUserStripePaymentDetails(ctx, tx, details)
	if err != nil {
		return nil, err
	}

	payment := billing.Payment{
		UserID:           user.ID,
		PlanID:           plan.ID,
		StripeSessionID:  fullSession.ID,
		AmountEUR:        float64(fullSession.AmountTotal) / 100,
		CreditsPurchased: purchased,
		Status:           billing.PaymentStatusPaid,
	}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("record payment %s: %w", fullSession.ID, err)
	}

	var published []events.Event
	if plan.IsCredits() {
		published = append(published, events.Event{
			Type: events.TypeCreditsAdjusted,
			Key:  fmt.Sprint(user.ID),
			Data: map[string]interface{}{
				"user_id":   user.ID,
				"purchased": purchased.String(),
				"balance":   user.Credits.String(),
				"session":   fullSession.ID,
			},
		})
	}

	logger.Get().Info("✅ checkout completed",
		zap.Uint("user_id", user.ID),
		zap.String("plan", string(plan.ID)),
		zap.String("credits", user.Credits.String()),
	)
	return published, nil
}
