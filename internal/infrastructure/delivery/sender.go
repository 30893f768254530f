// Package delivery composes the outbound channels a verification code goes out on.
package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emlakos/verify-api/internal/infrastructure/smtp"
	"github.com/emlakos/verify-api/internal/infrastructure/sns"
)

// Sender delivers a verification code to a recipient.
type Sender interface {
	SendVerificationCode(ctx context.Context, toEmail, recipientName, phone, code string) error
}

type sender struct {
	mailer     smtp.Mailer
	smsSender  sns.SMSSender // nil when SMS is not configured
	ttlMinutes int
}

func NewSender(mailer smtp.Mailer, smsSender sns.SMSSender, ttlMinutes int) Sender {
	return &sender{mailer: mailer, smsSender: smsSender, ttlMinutes: ttlMinutes}
}

// SendVerificationCode emails the code and, when a phone number is on the
// account and SMS is configured, sends a copy over SNS. Email is the primary
// channel: only its failure is reported. The SMS copy is best effort and its
// failure is logged here.
func (s *sender) SendVerificationCode(ctx context.Context, toEmail, recipientName, phone, code string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"Hello %s,\n\nUse this code to verify your account:\n\n\t%s\n\nThe code is valid for %d minutes. "+
			"If you did not request it, you can ignore this email.\n",
		recipientName, code, s.ttlMinutes,
	)
	emailErr := s.mailer.SendEmail(toEmail, subject, body)

	if s.smsSender != nil && phone != "" {
		msg := fmt.Sprintf("Your verification code: %s", code)
		if err := s.smsSender.SendSMS(ctx, phone, msg); err != nil {
			slog.Warn("verification SMS delivery failed", "phone", phone, "err", err)
		}
	}

	return emailErr
}
