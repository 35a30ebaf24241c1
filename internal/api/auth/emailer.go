package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"saas-api/config"
	"saas-api/internal/app/deps"
	"saas-api/internal/infra/mail"
	"saas-api/logger"

	"go.uber.org/zap"
)

const (
	verificationTTL  = 48 * time.Hour
	passwordResetTTL = time.Hour
)

func generateVerificationToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func SendVerificationEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify?token=%s", config.API_URL, token)
	if err := deps.Mail.Send(ctx, mail.VerificationMessage(to, link)); err != nil {
		logger.Get().Error("❌ verification email failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

func SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", config.APP_URL, token)
	if err := deps.Mail.Send(ctx, mail.PasswordResetMessage(to, link)); err != nil {
		logger.Get().Error("❌ password reset email failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
