package http

import (
	"context"

	"github.com/emlakos/verify-api/internal/domain"
)

// AccountRepository is the minimal interface the router requires from the account store.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	SetVerified(ctx context.Context, email string) error
}

// VerificationRepository is the minimal interface the router requires from the
// pending-verification store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.PendingVerification) error
	Get(ctx context.Context, email string) (*domain.PendingVerification, error)
	Consume(ctx context.Context, email, submittedCode string, now int64) error
	IncrementAttempt(ctx context.Context, email string) error
}

// CodeSender is the delivery capability the router requires.
type CodeSender interface {
	SendVerificationCode(ctx context.Context, toEmail, recipientName, phone, code string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo      AccountRepository
	VerificationRepo VerificationRepository
	Sender           CodeSender
}
