// Package verification implements the email verification state machine.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/emlakos/verify-api/internal/domain"
	"github.com/emlakos/verify-api/internal/pkg/code"
)

type Service interface {
	// VerifyEmail checks the submitted code against the pending record and,
	// on an exact match, consumes the record and marks the account verified.
	// Every failure is a typed domain error.
	VerifyEmail(ctx context.Context, email, submittedCode string) error
}

type accountStore interface {
	SetVerified(ctx context.Context, email string) error
}

type verificationStore interface {
	Get(ctx context.Context, email string) (*domain.PendingVerification, error)
	Consume(ctx context.Context, email, submittedCode string, now int64) error
	IncrementAttempt(ctx context.Context, email string) error
}

type service struct {
	accountRepo      accountStore
	verificationRepo verificationStore
	maxAttempts      int
	now              func() time.Time
}

type ServiceDeps struct {
	AccountRepo      accountStore
	VerificationRepo verificationStore
	MaxAttempts      int
}

func NewService(deps ServiceDeps) Service {
	max := deps.MaxAttempts
	if max <= 0 {
		max = 5
	}
	return &service{
		accountRepo:      deps.AccountRepo,
		verificationRepo: deps.VerificationRepo,
		maxAttempts:      max,
		now:              time.Now,
	}
}

func (s *service) VerifyEmail(ctx context.Context, email, submittedCode string) error {
	if strings.TrimSpace(email) == "" || submittedCode == "" {
		return domain.ErrMissingField
	}
	if !code.Valid(submittedCode) {
		return domain.ErrMalformedCode
	}
	email = domain.NormalizeEmail(email)

	v, err := s.verificationRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoPendingVerification
		}
		return storeFault("get pending verification", err)
	}

	// Lockout runs before the comparison: a locked record rejects even the
	// correct code until a resend replaces it.
	if v.AttemptCount >= s.maxAttempts {
		return domain.ErrTooManyAttempts
	}

	now := s.now().UTC().Unix()
	if v.Expired(now) {
		return domain.ErrCodeExpired
	}

	if v.Code != submittedCode {
		if err := s.verificationRepo.IncrementAttempt(ctx, email); err != nil {
			slog.Warn("failed to record verification attempt", "email", email, "err", err)
		}
		return domain.ErrCodeMismatch
	}

	// One-shot consumption. Losing the conditional delete means the record was
	// consumed or superseded under our feet; report it as already gone.
	if err := s.verificationRepo.Consume(ctx, email, submittedCode, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoPendingVerification
		}
		return storeFault("consume pending verification", err)
	}

	if err := s.accountRepo.SetVerified(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return storeFault("set account verified", err)
	}
	return nil
}

func storeFault(op string, err error) error {
	slog.Error("store operation failed", "op", op, "err", err)
	return domain.ErrStoreUnavailable
}
