// Package registration implements credential intake and verification code issuance.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/emlakos/verify-api/internal/domain"
	"github.com/emlakos/verify-api/internal/pkg/code"
	"github.com/emlakos/verify-api/internal/pkg/id"
	"github.com/emlakos/verify-api/internal/pkg/validate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Register validates the request, creates an unverified account and issues
	// its first verification code. The returned code is for telemetry only and
	// must never reach the caller-facing response.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.SafeAccount, string, error)
	// ResendCode issues a fresh code for an existing account, superseding any
	// prior pending code.
	ResendCode(ctx context.Context, email string) (string, error)
}

type accountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.PendingVerification) error
}

type codeSender interface {
	SendVerificationCode(ctx context.Context, toEmail, recipientName, phone, code string) error
}

type service struct {
	accountRepo      accountStore
	verificationRepo verificationStore
	sender           codeSender
	codeTTL          time.Duration
	now              func() time.Time
}

type ServiceDeps struct {
	AccountRepo      accountStore
	VerificationRepo verificationStore
	Sender           codeSender
	CodeTTL          time.Duration
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.CodeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &service{
		accountRepo:      deps.AccountRepo,
		verificationRepo: deps.VerificationRepo,
		sender:           deps.Sender,
		codeTTL:          ttl,
		now:              time.Now,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.SafeAccount, string, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, "", mapValidationError(err)
	}
	email := domain.NormalizeEmail(req.Email)

	if _, err := s.accountRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", storeFault("get account by email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		// The validator's max=72 counts runes while bcrypt caps at 72 bytes,
		// so a multibyte password can pass validation and still overflow here.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", domain.ErrWeakPassword
		}
		slog.Error("password hashing failed", "err", err)
		return nil, "", domain.ErrStoreUnavailable
	}
	now := s.now().UTC()
	a := &domain.Account{
		Email:        email,
		AccountID:    id.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		AccountType:  req.AccountType,
		PasswordHash: string(hash),
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accountRepo.Create(ctx, a); err != nil {
		// A concurrent register for the same email lost the conditional write.
		if errors.Is(err, domain.ErrConflict) {
			return nil, "", domain.ErrEmailAlreadyRegistered
		}
		return nil, "", storeFault("create account", err)
	}

	c, err := s.issue(ctx, a)
	if err != nil {
		return nil, "", err
	}
	return a.Safe(), c, nil
}

func (s *service) ResendCode(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", domain.ErrMissingField
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return "", domain.ErrInvalidEmailFormat
	}
	a, err := s.accountRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrAccountNotFound
		}
		return "", storeFault("get account by email", err)
	}
	return s.issue(ctx, a)
}

// issue generates a fresh code, overwrites the pending record and triggers
// delivery. Delivery failure never fails the operation: the code stays valid
// for the caller to retry, and is logged as the fallback channel.
func (s *service) issue(ctx context.Context, a *domain.Account) (string, error) {
	c, err := code.Generate()
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	v := &domain.PendingVerification{
		Email:        a.Email,
		Code:         c,
		IssuedAt:     now.Unix(),
		ExpiresAt:    now.Add(s.codeTTL).Unix(),
		AttemptCount: 0,
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return "", storeFault("put pending verification", err)
	}
	if err := s.sender.SendVerificationCode(ctx, a.Email, a.FirstName, a.Phone, c); err != nil {
		slog.Warn("verification code delivery failed, code remains valid",
			"email", a.Email, "code", c, "err", err)
	}
	return c, nil
}

// mapValidationError converts the first field failure into its stable kind.
// Intentionally only the first: the caller fixes one thing at a time and
// each kind maps to one message.
func mapValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return domain.ErrMissingField
	}
	fe := ve[0]
	if fe.Tag() == "required" {
		return domain.ErrMissingField
	}
	switch fe.Field() {
	case "Email":
		return domain.ErrInvalidEmailFormat
	case "Password":
		return domain.ErrWeakPassword
	case "AccountType":
		return domain.ErrAccountTypeInvalid
	}
	return domain.ErrMissingField
}

// storeFault logs the raw infrastructure error and returns the opaque
// caller-visible kind. Raw store errors never reach the caller.
func storeFault(op string, err error) error {
	slog.Error("store operation failed", "op", op, "err", err)
	return domain.ErrStoreUnavailable
}
