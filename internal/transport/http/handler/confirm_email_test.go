package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emlakos/verify-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) Register(ctx context.Context, req domain.RegisterRequest) (*domain.SafeAccount, string, error) {
	args := m.Called(ctx, req)
	if a, _ := args.Get(0).(*domain.SafeAccount); a != nil {
		return a, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}
func (m *mockIssuer) ResendCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) VerifyEmail(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

// --- helpers ---

func newTestRouter(iss *mockIssuer, ver *mockVerifier) http.Handler {
	r := chi.NewRouter()
	accountH := NewAccountHandler(iss)
	confirmH := NewConfirmEmailHandler(iss, ver)
	r.Post("/v1/accounts", accountH.Register)
	r.Post("/v1/confirm-email/{action}", confirmH.Action)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- register ---

func TestRegister_Created(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Register", mock.Anything, mock.AnythingOfType("domain.RegisterRequest")).
		Return(&domain.SafeAccount{ID: "01ARZ", Email: "ayse@example.com", FirstName: "Ayşe", LastName: "Yıldız"}, "123456", nil)

	rec := doJSON(t, newTestRouter(iss, nil), http.MethodPost, "/v1/accounts", map[string]string{
		"first_name": "Ayşe", "last_name": "Yıldız", "email": "ayse@example.com",
		"phone": "5551234567", "password": "password1", "account_type": "buyer",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var env RegisterEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Account)
	assert.Equal(t, "ayse@example.com", env.Account.Email)
	// The code must never appear in the response.
	assert.NotContains(t, rec.Body.String(), "123456")
}

func TestRegister_InvalidBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader([]byte("{not json")))
	newTestRouter(&mockIssuer{}, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest, "WeakPassword"},
		{"missing field", domain.ErrMissingField, http.StatusBadRequest, "MissingField"},
		{"duplicate email", domain.ErrEmailAlreadyRegistered, http.StatusConflict, "EmailAlreadyRegistered"},
		{"store down", domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "StoreUnavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iss := &mockIssuer{}
			iss.On("Register", mock.Anything, mock.Anything).Return(nil, "", tc.err)

			rec := doJSON(t, newTestRouter(iss, nil), http.MethodPost, "/v1/accounts", map[string]string{})

			assert.Equal(t, tc.status, rec.Code)
			var env MessageEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.kind, env.Kind)
		})
	}
}

// --- resend ---

func TestResend_OK(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("ResendCode", mock.Anything, "ayse@example.com").Return("654321", nil)

	rec := doJSON(t, newTestRouter(iss, nil), http.MethodPost, "/v1/confirm-email/resend",
		map[string]string{"email": "ayse@example.com"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "654321")
	iss.AssertExpectations(t)
}

func TestResend_AccountNotFound(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("ResendCode", mock.Anything, "nouser@example.com").Return("", domain.ErrAccountNotFound)

	rec := doJSON(t, newTestRouter(iss, nil), http.MethodPost, "/v1/confirm-email/resend",
		map[string]string{"email": "nouser@example.com"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- validate-code ---

func TestValidateCode_OK(t *testing.T) {
	ver := &mockVerifier{}
	ver.On("VerifyEmail", mock.Anything, "ayse@example.com", "123456").Return(nil)

	rec := doJSON(t, newTestRouter(&mockIssuer{}, ver), http.MethodPost, "/v1/confirm-email/validate-code",
		map[string]string{"email": "ayse@example.com", "code": "123456"})

	assert.Equal(t, http.StatusOK, rec.Code)
	ver.AssertExpectations(t)
}

func TestValidateCode_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"malformed code", domain.ErrMalformedCode, http.StatusBadRequest},
		{"no pending", domain.ErrNoPendingVerification, http.StatusNotFound},
		{"expired", domain.ErrCodeExpired, http.StatusUnauthorized},
		{"mismatch", domain.ErrCodeMismatch, http.StatusUnauthorized},
		{"locked", domain.ErrTooManyAttempts, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ver := &mockVerifier{}
			ver.On("VerifyEmail", mock.Anything, mock.Anything, mock.Anything).Return(tc.err)

			rec := doJSON(t, newTestRouter(&mockIssuer{}, ver), http.MethodPost, "/v1/confirm-email/validate-code",
				map[string]string{"email": "ayse@example.com", "code": "000000"})

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestConfirmEmail_UnknownAction(t *testing.T) {
	rec := doJSON(t, newTestRouter(&mockIssuer{}, &mockVerifier{}), http.MethodPost,
		"/v1/confirm-email/frobnicate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
