package users

import (
	"time"

	"saas-api/internal/domain/plans"

	"github.com/shopspring/decimal"
)

// InitialCredits is granted to every new account.
var InitialCredits = decimal.NewFromInt(3)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `json:"name"`
	Lastname     string  `json:"lastname"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	IsAdmin      bool    `gorm:"not null;default:false" json:"is_admin"`
	IsVerified   bool    `json:"is_verified"`

	PaymentProcessorUserID *string                   `gorm:"column:payment_processor_user_id;uniqueIndex:idx_users_payment_processor_user_id" json:"payment_processor_user_id"`
	SubscriptionPlan       *plans.PaymentPlanID      `gorm:"column:subscription_plan;type:varchar(32)" json:"subscription_plan"`
	SubscriptionStatus     *plans.SubscriptionStatus `gorm:"column:subscription_status;type:varchar(32)" json:"subscription_status"`
	DatePaid               *time.Time                `gorm:"column:date_paid" json:"date_paid"`
	Credits                decimal.Decimal           `gorm:"type:numeric(12,2);not null;default:0" json:"credits"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
