package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"
	"saas-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func setup(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t, &users.User{}, &users.VerificationToken{})
	old := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = old })
}

func TestGetCurrentUserReportsBilling(t *testing.T) {
	setup(t)

	plan, status, cus := plans.Pro, plans.StatusCancelAtPeriodEnd, "cus_1"
	u := users.User{
		Email:                  "ana@example.com",
		Credits:                decimal.RequireFromString("7.5"),
		SubscriptionPlan:       &plan,
		SubscriptionStatus:     &status,
		PaymentProcessorUserID: &cus,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := gin.New()
	r.GET("/me", func(c *gin.Context) { c.Set("user_id", u.ID); c.Next() }, GetCurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp MeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Email != "ana@example.com" || !resp.Billing.HasStripeAccount {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !resp.Billing.Credits.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("credits = %s, want 7.5", resp.Billing.Credits)
	}
	sub := resp.Billing.Subscription
	if sub == nil || sub.Plan != "pro" || !sub.HasAccess {
		t.Errorf("subscription = %+v", sub)
	}
}

func TestVerifyEmail(t *testing.T) {
	setup(t)
	config.APP_URL = "http://app.test"

	u := users.User{Email: "ana@example.com"}
	database.DB.Create(&u)
	database.DB.Create(&users.VerificationToken{UserID: u.ID, Token: "good", Type: users.TokenTypeVerification, ExpiresAt: time.Now().Add(time.Hour)})
	database.DB.Create(&users.VerificationToken{UserID: u.ID, Token: "old", Type: users.TokenTypeVerification, ExpiresAt: time.Now().Add(-time.Hour)})

	r := gin.New()
	r.GET("/verify", VerifyEmail)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?token=old", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expired token status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?token=good", nil))
	if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != "http://app.test/signin" {
		t.Fatalf("status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}

	var reloaded users.User
	database.DB.First(&reloaded, u.ID)
	if !reloaded.IsVerified {
		t.Error("user should be verified")
	}
}
