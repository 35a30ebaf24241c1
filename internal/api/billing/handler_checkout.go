package billing

import (
	"errors"
	"fmt"
	"net/http"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/app/deps"
	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"
	"saas-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	customer "github.com/stripe/stripe-go/v75/customer"
	"go.uber.org/zap"
)

// Stripe calls, swapped out in tests.
var (
	newCustomer        = customer.New
	newCheckoutSession = checkoutsession.New
	newPortalSession   = portalSession.New
)

var errNoStripeKey = errors.New("stripe key not configured")

func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PlanID string `json:"plan_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_id"})
		return
	}

	planID, err := plans.ParsePaymentPlanID(body.PlanID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, err := deps.Plans.PlanByID(planID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email first"})
		return
	}

	customerID, err := ensureStripeCustomer(&user)
	if err != nil {
		logger.Get().Error("❌ stripe customer", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
		return
	}

	metadata := map[string]string{
		"user_id": fmt.Sprint(user.ID),
		"plan_id": string(plan.ID),
	}
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/checkout?success=true"),
		CancelURL:  stripe.String(config.APP_URL + "/checkout?canceled=true"),
		Customer:   stripe.String(customerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.StripePriceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID:   stripe.String(fmt.Sprint(user.ID)),
		AutomaticTax:        &stripe.CheckoutSessionAutomaticTaxParams{Enabled: stripe.Bool(true)},
		AllowPromotionCodes: stripe.Bool(true),
		CustomerUpdate: &stripe.CheckoutSessionCustomerUpdateParams{
			Address: stripe.String("auto"),
		},
		Metadata: metadata,
	}

	if plan.IsCredits() {
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
	} else {
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{Metadata: metadata}
	}

	s, err := newCheckoutSession(params)
	if err != nil {
		logger.Get().Error("❌ checkout session", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_url": s.URL, "session_id": s.ID})
}

func CreateBillingPortal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.PaymentProcessorUserID == nil || *user.PaymentProcessorUserID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (make a purchase first)"})
		return
	}

	portal, err := newPortalSession(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.PaymentProcessorUserID),
		ReturnURL: stripe.String(config.APP_URL + "/account"),
	})
	if err != nil {
		logger.Get().Error("❌ billing portal", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_url": portal.URL})
}

// currentUser loads the authenticated caller and writes the error response
// itself when that is not possible.
func currentUser(c *gin.Context) (users.User, bool) {
	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": errNoStripeKey.Error()})
		return users.User{}, false
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return users.User{}, false
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return users.User{}, false
	}
	return user, true
}

// ensureStripeCustomer creates the Stripe customer on first purchase and
// stores its id as the user's payment processor id.
func ensureStripeCustomer(user *users.User) (string, error) {
	if user.PaymentProcessorUserID != nil && *user.PaymentProcessorUserID != "" {
		return *user.PaymentProcessorUserID, nil
	}

	cus, err := newCustomer(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": fmt.Sprint(user.ID),
			"app_env": config.APP_ENV,
		},
	})
	if err != nil {
		return "", err
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("payment_processor_user_id", cus.ID).Error; err != nil {
		return "", fmt.Errorf("store stripe customer: %w", err)
	}

	user.PaymentProcessorUserID = stripe.String(cus.ID)
	return cus.ID, nil
}
