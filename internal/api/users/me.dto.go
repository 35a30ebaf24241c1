package users

import (
	"time"

	"github.com/shopspring/decimal"
)

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	AuthProvider string `json:"auth_provider"`
	IsAdmin      bool   `json:"is_admin"`
	IsVerified   bool   `json:"is_verified"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Credits          decimal.Decimal  `json:"credits"`
	Subscription     *SubscriptionDTO `json:"subscription"`
	DatePaid         *time.Time       `json:"date_paid"`
	HasStripeAccount bool             `json:"has_stripe_account"`
}

type SubscriptionDTO struct {
	Plan      string `json:"plan"`
	PlanName  string `json:"plan_name"`
	Status    string `json:"status"`
	HasAccess bool   `json:"has_access"`
}
