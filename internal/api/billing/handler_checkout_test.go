package billing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/app/deps"
	"saas-api/internal/domain/billing"
	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"
	"saas-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

type stripeCalls struct {
	customers int
	checkout  *stripe.CheckoutSessionParams
}

func setup(t *testing.T) (*gin.Engine, *stripeCalls, users.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t, &users.User{}, &billing.Payment{})
	calls := &stripeCalls{}

	oldDB, oldPlans, oldKey := database.DB, deps.Plans, config.STRIPE_SECRET_KEY
	oldCustomer, oldCheckout := newCustomer, newCheckoutSession
	database.DB = db
	deps.Plans = plans.NewCatalogue("price_hobby", "price_pro", "price_credits")
	config.STRIPE_SECRET_KEY = "sk_test"
	newCustomer = func(*stripe.CustomerParams) (*stripe.Customer, error) {
		calls.customers++
		return &stripe.Customer{ID: "cus_new"}, nil
	}
	newCheckoutSession = func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		calls.checkout = p
		return &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
	}
	t.Cleanup(func() {
		database.DB, deps.Plans, config.STRIPE_SECRET_KEY = oldDB, oldPlans, oldKey
		newCustomer, newCheckoutSession = oldCustomer, oldCheckout
	})

	u := users.User{Email: "ana@example.com", IsVerified: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := gin.New()
	r.POST("/checkout", func(c *gin.Context) { c.Set("user_id", u.ID); c.Next() }, CreateCheckoutSession)
	r.GET("/payments", func(c *gin.Context) { c.Set("user_id", u.ID); c.Next() }, GetPaymentHistory)
	return r, calls, u
}

func checkout(r *gin.Engine, planID string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(gin.H{"plan_id": planID})
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutCreditsUsesPaymentMode(t *testing.T) {
	r, calls, u := setup(t)

	w := checkout(r, "credits10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["session_url"] != "https://checkout.test/cs_1" || resp["session_id"] != "cs_1" {
		t.Errorf("unexpected response: %v", resp)
	}

	p := calls.checkout
	if p == nil || *p.Mode != string(stripe.CheckoutSessionModePayment) || p.SubscriptionData != nil {
		t.Fatalf("unexpected checkout params: %+v", p)
	}
	if *p.LineItems[0].Price != "price_credits" || *p.Customer != "cus_new" {
		t.Errorf("price = %s, customer = %s", *p.LineItems[0].Price, *p.Customer)
	}

	var reloaded users.User
	database.DB.First(&reloaded, u.ID)
	if reloaded.PaymentProcessorUserID == nil || *reloaded.PaymentProcessorUserID != "cus_new" {
		t.Errorf("customer id not stored: %v", reloaded.PaymentProcessorUserID)
	}
}

func TestCheckoutSubscriptionReusesCustomer(t *testing.T) {
	r, calls, u := setup(t)
	database.DB.Model(&users.User{}).Where("id = ?", u.ID).Update("payment_processor_user_id", "cus_existing")

	if w := checkout(r, "pro"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if calls.customers != 0 {
		t.Errorf("created %d customers, want 0", calls.customers)
	}
	p := calls.checkout
	if *p.Mode != string(stripe.CheckoutSessionModeSubscription) || p.SubscriptionData == nil {
		t.Errorf("expected subscription mode, got %+v", p)
	}
	if *p.Customer != "cus_existing" || p.Metadata["plan_id"] != "pro" {
		t.Errorf("customer = %s, metadata = %v", *p.Customer, p.Metadata)
	}
}

func TestCheckoutRejectsUnknownPlan(t *testing.T) {
	r, calls, _ := setup(t)

	for _, id := range []string{"", "enterprise"} {
		if w := checkout(r, id); w.Code != http.StatusBadRequest {
			t.Errorf("plan %q: status = %d, want 400", id, w.Code)
		}
	}
	if calls.checkout != nil {
		t.Error("no session should be created for unknown plans")
	}
}

func TestPaymentHistoryEmpty(t *testing.T) {
	r, _, _ := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments", nil))
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
