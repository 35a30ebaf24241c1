package plans

import (
	"fmt"
	"strings"
)

type PaymentPlanID string

const (
	Hobby     PaymentPlanID = "hobby"
	Pro       PaymentPlanID = "pro"
	Credits10 PaymentPlanID = "credits10"
)

type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusCancelAtPeriodEnd SubscriptionStatus = "cancel_at_period_end"
	StatusDeleted           SubscriptionStatus = "deleted"
)

// Effect is what a completed payment for a plan grants: either a
// subscription or a fixed amount of credits.
type Effect struct {
	Kind    string // "subscription" | "credits"
	Credits int64
}

const (
	EffectSubscription = "subscription"
	EffectCredits      = "credits"
)

type Plan struct {
	ID            PaymentPlanID
	StripePriceID string
	Effect        Effect
}

func (p Plan) IsCredits() bool {
	return p.Effect.Kind == EffectCredits
}

// Catalogue maps plan ids to Stripe prices. Built once from config at startup.
type Catalogue struct {
	plans map[PaymentPlanID]Plan
}

func NewCatalogue(hobbyPriceID, proPriceID, credits10PriceID string) *Catalogue {
	return &Catalogue{plans: map[PaymentPlanID]Plan{
		Hobby:     {ID: Hobby, StripePriceID: hobbyPriceID, Effect: Effect{Kind: EffectSubscription}},
		Pro:       {ID: Pro, StripePriceID: proPriceID, Effect: Effect{Kind: EffectSubscription}},
		Credits10: {ID: Credits10, StripePriceID: credits10PriceID, Effect: Effect{Kind: EffectCredits, Credits: 10}},
	}}
}

func (c *Catalogue) PlanByID(id PaymentPlanID) (Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return Plan{}, fmt.Errorf("unknown payment plan %q", id)
	}
	if p.StripePriceID == "" {
		return Plan{}, fmt.Errorf("payment plan %q has no stripe price configured", id)
	}
	return p, nil
}

func (c *Catalogue) PlanByPriceID(priceID string) (Plan, bool) {
	if priceID == "" {
		return Plan{}, false
	}
	for _, p := range c.plans {
		if p.StripePriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}

// All returns the plans with a configured Stripe price, in display order.
func (c *Catalogue) All() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, id := range []PaymentPlanID{Hobby, Pro, Credits10} {
		if p, ok := c.plans[id]; ok && p.StripePriceID != "" {
			out = append(out, p)
		}
	}
	return out
}

func ParsePaymentPlanID(s string) (PaymentPlanID, error) {
	switch id := PaymentPlanID(strings.ToLower(strings.TrimSpace(s))); id {
	case Hobby, Pro, Credits10:
		return id, nil
	}
	return "", fmt.Errorf("invalid payment plan id %q", s)
}

func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch st := SubscriptionStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusPastDue, StatusCancelAtPeriodEnd, StatusDeleted:
		return st, nil
	}
	return "", fmt.Errorf("invalid subscription status %q", s)
}

func PrettyName(id PaymentPlanID) string {
	switch id {
	case Hobby:
		return "Hobby"
	case Pro:
		return "Pro"
	case Credits10:
		return "10 Credits"
	}
	return string(id)
}
