package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"
	"saas-api/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreditScale is the number of decimal places the credits column stores.
const CreditScale = 2

// ProcessingFee is the fixed €0.50 transaction fee, in credit units, taken
// from every credit purchase.
var ProcessingFee = decimal.RequireFromString("0.5")

var (
	ErrMissingStripeID = errors.New("missing payment processor user id")
	ErrUserNotFound    = errors.New("no user with that payment processor id")
	ErrCreditPrecision = errors.New("credits purchased must have at most 2 decimal places")
)

// PaymentDetails is a confirmed payment as reported by the processor. Nil
// fields were not part of the confirmation and leave stored values untouched.
type PaymentDetails struct {
	UserStripeID          string
	SubscriptionPlan      *plans.PaymentPlanID
	SubscriptionStatus    *plans.SubscriptionStatus
	NumOfCreditsPurchased *decimal.Decimal
	DatePaid              *time.Time
}

// AdjustedCredits subtracts the processing fee from a purchase. The result
// never goes below zero; clamped reports whether the floor was applied.
func AdjustedCredits(purchased decimal.Decimal) (adjusted decimal.Decimal, clamped bool) {
	adjusted = purchased.Sub(ProcessingFee)
	if adjusted.IsNegative() {
		return decimal.Zero, true
	}
	return adjusted, false
}

// UpdateUserStripePaymentDetails applies a payment confirmation to the user
// owning d.UserStripeID and returns the updated record.
//
// The credit increment is a single SQL expression, so concurrent deliveries
// of different payments cannot lose updates. Replaying the same confirmation
// credits the user again; callers deduplicate by event id.
func UpdateUserStripePaymentDetails(ctx context.Context, db *gorm.DB, d PaymentDetails) (*users.User, error) {
	if d.UserStripeID == "" {
		return nil, ErrMissingStripeID
	}

	var increment *decimal.Decimal
	if d.NumOfCreditsPurchased != nil {
		// the column would round anything finer, so the increment would no longer be exact
		if p := *d.NumOfCreditsPurchased; !p.Equal(p.Truncate(CreditScale)) {
			return nil, ErrCreditPrecision
		}
		adjusted, clamped := AdjustedCredits(*d.NumOfCreditsPurchased)
		if clamped {
			logger.Get().Warn("processing fee exceeds the number of credits purchased, crediting 0",
				zap.String("user_stripe_id", d.UserStripeID),
				zap.String("credits_purchased", d.NumOfCreditsPurchased.String()),
			)
		}
		increment = &adjusted
	}

	updates := map[string]interface{}{
		"payment_processor_user_id": d.UserStripeID,
	}
	if d.SubscriptionPlan != nil {
		updates["subscription_plan"] = string(*d.SubscriptionPlan)
	}
	if d.SubscriptionStatus != nil {
		updates["subscription_status"] = string(*d.SubscriptionStatus)
	}
	if d.DatePaid != nil {
		updates["date_paid"] = *d.DatePaid
	}
	if increment != nil {
		updates["credits"] = gorm.Expr("credits + ?", *increment)
	}

	var updated users.User
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current users.User
		if err := tx.Where("payment_processor_user_id = ?", d.UserStripeID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}

		if err := tx.Model(&users.User{}).
			Where("id = ?", current.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("update payment details: %w", err)
		}

		return tx.First(&updated, current.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
