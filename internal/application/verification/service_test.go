package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emlakos/verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) SetVerified(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockVerificationStore struct{ mock.Mock }

func (m *mockVerificationStore) Get(ctx context.Context, email string) (*domain.PendingVerification, error) {
	args := m.Called(ctx, email)
	if v, _ := args.Get(0).(*domain.PendingVerification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationStore) Consume(ctx context.Context, email, submittedCode string, now int64) error {
	return m.Called(ctx, email, submittedCode, now).Error(0)
}
func (m *mockVerificationStore) IncrementAttempt(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// --- helpers ---

var frozen = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newServiceAt(as *mockAccountStore, vs *mockVerificationStore, now time.Time) Service {
	svc := NewService(ServiceDeps{AccountRepo: as, VerificationRepo: vs, MaxAttempts: 5}).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func pending(c string, expiresAt int64, attempts int) *domain.PendingVerification {
	return &domain.PendingVerification{
		Email:        "ayse@example.com",
		Code:         c,
		IssuedAt:     expiresAt - 600,
		ExpiresAt:    expiresAt,
		AttemptCount: attempts,
	}
}

// --- input checks ---

func TestVerify_MissingField(t *testing.T) {
	svc := newServiceAt(nil, nil, frozen)

	err := svc.VerifyEmail(context.Background(), "", "123456")
	assert.Equal(t, domain.KindMissingField, domain.KindOf(err))

	err = svc.VerifyEmail(context.Background(), "ayse@example.com", "")
	assert.Equal(t, domain.KindMissingField, domain.KindOf(err))
}

func TestVerify_MalformedCode(t *testing.T) {
	svc := newServiceAt(nil, nil, frozen)
	for _, c := range []string{"12345", "1234567", "12345a", "12 456"} {
		err := svc.VerifyEmail(context.Background(), "ayse@example.com", c)
		assert.Equal(t, domain.KindMalformedCode, domain.KindOf(err), "code %q", c)
	}
}

// --- record state ---

func TestVerify_NoPendingVerification(t *testing.T) {
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "nouser@example.com").Return(nil, domain.ErrNotFound)

	svc := newServiceAt(nil, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "nouser@example.com", "123456")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.KindNoPendingVerification, domain.KindOf(err))
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	expiresAt := frozen.Unix()

	// At exactly expiresAt the code still works.
	vs := &mockVerificationStore{}
	as := &mockAccountStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(pending("123456", expiresAt, 0), nil)
	vs.On("Consume", mock.Anything, "ayse@example.com", "123456", expiresAt).Return(nil)
	as.On("SetVerified", mock.Anything, "ayse@example.com").Return(nil)

	svc := newServiceAt(as, vs, frozen)
	require.NoError(t, svc.VerifyEmail(context.Background(), "ayse@example.com", "123456"))

	// One second past expiresAt it is expired.
	vs2 := &mockVerificationStore{}
	vs2.On("Get", mock.Anything, "ayse@example.com").Return(pending("123456", expiresAt, 0), nil)

	svc2 := newServiceAt(nil, vs2, frozen.Add(time.Second))
	err := svc2.VerifyEmail(context.Background(), "ayse@example.com", "123456")
	assert.Equal(t, domain.KindCodeExpired, domain.KindOf(err))
	vs2.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_Mismatch_IncrementsAttempt(t *testing.T) {
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(pending("654321", frozen.Unix()+60, 0), nil)
	vs.On("IncrementAttempt", mock.Anything, "ayse@example.com").Return(nil)

	svc := newServiceAt(nil, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "ayse@example.com", "000000")

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.KindCodeMismatch, domain.KindOf(err))
	vs.AssertExpectations(t)
}

func TestVerify_TooManyAttempts_LocksOutEvenCorrectCode(t *testing.T) {
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(pending("123456", frozen.Unix()+60, 5), nil)

	svc := newServiceAt(nil, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "ayse@example.com", "123456")

	assert.Equal(t, domain.KindTooManyAttempts, domain.KindOf(err))
	vs.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_Success_ConsumesAndSetsVerified(t *testing.T) {
	vs := &mockVerificationStore{}
	as := &mockAccountStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(pending("042042", frozen.Unix()+300, 2), nil)
	vs.On("Consume", mock.Anything, "ayse@example.com", "042042", frozen.Unix()).Return(nil)
	as.On("SetVerified", mock.Anything, "ayse@example.com").Return(nil)

	svc := newServiceAt(as, vs, frozen)
	require.NoError(t, svc.VerifyEmail(context.Background(), "ayse@example.com", "042042"))

	vs.AssertExpectations(t)
	as.AssertExpectations(t)
}

func TestVerify_ReplayAfterConsumption(t *testing.T) {
	// After a successful verify the record is gone; the same code fails.
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(nil, domain.ErrNotFound)

	svc := newServiceAt(nil, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "ayse@example.com", "042042")

	assert.Equal(t, domain.KindNoPendingVerification, domain.KindOf(err))
}

func TestVerify_LostConsumeRace(t *testing.T) {
	// The conditional delete fails when a concurrent verify or resend got there
	// first; the record is reported as already gone.
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(pending("123456", frozen.Unix()+60, 0), nil)
	vs.On("Consume", mock.Anything, "ayse@example.com", "123456", frozen.Unix()).
		Return(domain.ErrNotFound)

	svc := newServiceAt(nil, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "ayse@example.com", "123456")

	assert.Equal(t, domain.KindNoPendingVerification, domain.KindOf(err))
}

func TestVerify_AccountGoneAfterConsume(t *testing.T) {
	vs := &mockVerificationStore{}
	as := &mockAccountStore{}
	vs.On("Get", mock.Anything, "ayse@example.com").Return(pending("123456", frozen.Unix()+60, 0), nil)
	vs.On("Consume", mock.Anything, "ayse@example.com", "123456", frozen.Unix()).Return(nil)
	as.On("SetVerified", mock.Anything, "ayse@example.com").Return(domain.ErrNotFound)

	svc := newServiceAt(as, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "ayse@example.com", "123456")

	assert.Equal(t, domain.KindAccountNotFound, domain.KindOf(err))
}

func TestVerify_StoreFaultIsOpaque(t *testing.T) {
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("dynamo: throttled"))

	svc := newServiceAt(nil, vs, frozen)
	err := svc.VerifyEmail(context.Background(), "ayse@example.com", "123456")

	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))
	assert.NotContains(t, err.Error(), "dynamo")
}
