package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"saas-api/config"
	"saas-api/database"
	"saas-api/internal/app/deps"
	"saas-api/internal/domain/users"
	"saas-api/internal/infra/mail"
	"saas-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *recordingSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t, &users.User{}, &users.VerificationToken{})
	sender := &recordingSender{}

	oldDB, oldMail := database.DB, deps.Mail
	oldSecret, oldAdmins := config.JWT_SECRET, config.ADMIN_EMAILS
	database.DB = db
	deps.Mail = sender
	config.JWT_SECRET = "test-secret"
	config.ADMIN_EMAILS = []string{"boss@example.com"}
	t.Cleanup(func() {
		database.DB, deps.Mail = oldDB, oldMail
		config.JWT_SECRET, config.ADMIN_EMAILS = oldSecret, oldAdmins
	})

	r := gin.New()
	r.POST("/register", Register)
	r.POST("/login", Login)
	r.POST("/request-password-reset", RequestPasswordReset)
	r.POST("/reset-password", ResetPassword)
	return r, sender
}

func post(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIsPasswordStrong(t *testing.T) {
	cases := map[string]bool{
		"short1":      false,
		"onlyletters": false,
		"12345678":    false,
		"letters123":  true,
	}
	for pw, want := range cases {
		if got := isPasswordStrong(pw); got != want {
			t.Errorf("isPasswordStrong(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestRegisterGrantsInitialCreditsAndSendsVerification(t *testing.T) {
	r, sender := setup(t)

	w := post(r, "/register", gin.H{"name": "Ana", "email": "Ana@Example.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var u users.User
	if err := database.DB.Where("email = ?", "ana@example.com").First(&u).Error; err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if !u.Credits.Equal(decimal.NewFromInt(3)) {
		t.Errorf("credits = %s, want 3", u.Credits)
	}
	if u.IsAdmin || u.IsVerified {
		t.Errorf("IsAdmin = %v, IsVerified = %v", u.IsAdmin, u.IsVerified)
	}

	var tok users.VerificationToken
	if err := database.DB.Where("user_id = ?", u.ID).First(&tok).Error; err != nil {
		t.Fatalf("verification token missing: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].Text, tok.Token) {
		t.Errorf("verification email not sent with token: %+v", sender.sent)
	}
}

func TestRegisterMarksAdminEmails(t *testing.T) {
	r, _ := setup(t)

	if w := post(r, "/register", gin.H{"name": "Boss", "email": "boss@example.com", "password": "secret123"}); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var u users.User
	database.DB.Where("email = ?", "boss@example.com").First(&u)
	if !u.IsAdmin {
		t.Error("expected admin email to be promoted at signup")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	r, _ := setup(t)
	body := gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret123"}

	post(r, "/register", body)
	if w := post(r, "/register", body); w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestLoginIssuesAdminClaim(t *testing.T) {
	r, _ := setup(t)
	post(r, "/register", gin.H{"name": "Boss", "email": "boss@example.com", "password": "secret123"})

	if w := post(r, "/login", gin.H{"email": "boss@example.com", "password": "secret123"}); w.Code != http.StatusForbidden {
		t.Fatalf("unverified login status = %d, want 403", w.Code)
	}

	database.DB.Model(&users.User{}).Where("email = ?", "boss@example.com").Update("is_verified", true)

	if w := post(r, "/login", gin.H{"email": "boss@example.com", "password": "wrong1234"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}

	w := post(r, "/login", gin.H{"email": "boss@example.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims["is_admin"] != true || claims["email"] != "boss@example.com" {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	r, sender := setup(t)
	post(r, "/register", gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret123"})

	if w := post(r, "/request-password-reset", gin.H{"email": "nobody@example.com"}); w.Code != http.StatusOK {
		t.Errorf("unknown email status = %d, want 200", w.Code)
	}
	post(r, "/request-password-reset", gin.H{"email": "ana@example.com"})

	var tok users.VerificationToken
	if err := database.DB.Where("type = ?", users.TokenTypePasswordReset).First(&tok).Error; err != nil {
		t.Fatalf("reset token missing: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}

	if w := post(r, "/reset-password", gin.H{"token": "nope", "new_password": "another123"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad token status = %d, want 400", w.Code)
	}
	if w := post(r, "/reset-password", gin.H{"token": tok.Token, "new_password": "another123"}); w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}

	var count int64
	database.DB.Model(&users.VerificationToken{}).Where("token = ?", tok.Token).Count(&count)
	if count != 0 {
		t.Error("used reset token should be deleted")
	}
}
