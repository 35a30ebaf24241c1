package mail

import "fmt"

func VerificationMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Verify your account",
		Text:    fmt.Sprintf("Click the following link to verify your account:\n\n%s", link),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
	<p>Click the button below to verify your account:</p>
	<a href="%s" style="display: inline-block; background: #eab308; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">Verify email</a>
</div>`, link),
	}
}

func PasswordResetMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Text:    fmt.Sprintf("Use the following link to reset your password. It expires in 1 hour.\n\n%s", link),
		HTML: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
	<p>Use the button below to reset your password. The link expires in 1 hour.</p>
	<a href="%s" style="display: inline-block; background: #eab308; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">Reset password</a>
</div>`, link),
	}
}
