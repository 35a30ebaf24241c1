package users

import (
	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Lastname:     u.Lastname,
		AuthProvider: u.AuthProvider,
		IsAdmin:      u.IsAdmin,
		IsVerified:   u.IsVerified,
	}
}

func BuildBillingDTO(u users.User) BillingDTO {
	return BillingDTO{
		Credits:          u.Credits,
		Subscription:     BuildSubscriptionDTO(u),
		DatePaid:         u.DatePaid,
		HasStripeAccount: u.PaymentProcessorUserID != nil && *u.PaymentProcessorUserID != "",
	}
}

func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.SubscriptionPlan == nil {
		return nil
	}

	status := ""
	if u.SubscriptionStatus != nil {
		status = string(*u.SubscriptionStatus)
	}

	return &SubscriptionDTO{
		Plan:     string(*u.SubscriptionPlan),
		PlanName: plans.PrettyName(*u.SubscriptionPlan),
		Status:   status,
		// cancel_at_period_end keeps access until the period runs out
		HasAccess: status == string(plans.StatusActive) || status == string(plans.StatusCancelAtPeriodEnd),
	}
}
