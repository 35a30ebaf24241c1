package billing

import (
	"time"

	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPaid = "paid"
)

// Payment is one completed checkout, kept as the user's payment history.
type Payment struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	UserID           uint                `gorm:"index" json:"user_id"`
	User             users.User          `json:"-"`
	PlanID           plans.PaymentPlanID `gorm:"type:varchar(32)" json:"plan_id"`
	StripeSessionID  string              `gorm:"uniqueIndex;type:varchar(191)" json:"stripe_session_id"`
	AmountEUR        float64             `json:"amount_eur"`
	CreditsPurchased decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0" json:"credits_purchased"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
}
