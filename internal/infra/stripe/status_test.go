package stripe

import (
	"testing"

	"saas-api/internal/domain/plans"
)

func TestNormalizeStripeStatus(t *testing.T) {
	tests := []struct {
		in     string
		cancel bool
		want   plans.SubscriptionStatus
		wantOK bool
	}{
		{"active", false, plans.StatusActive, true},
		{"active", true, plans.StatusCancelAtPeriodEnd, true},
		{"trialing", false, plans.StatusActive, true},
		{"past_due", false, plans.StatusPastDue, true},
		{"unpaid", false, plans.StatusPastDue, true},
		{"canceled", false, plans.StatusDeleted, true},
		{"incomplete_expired", false, plans.StatusDeleted, true},
		{"incomplete", false, "", false},
		{"", false, "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeStripeStatus(tt.in, tt.cancel)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeStripeStatus(%q, %v) = %q, %v; want %q, %v", tt.in, tt.cancel, got, ok, tt.want, tt.wantOK)
		}
	}
}
