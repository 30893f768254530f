package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("unavailable")
)

// Kind is the stable identifier for a caller-visible failure. Transports key
// user-facing messaging off it; the wrapped sentinel decides the status class.
type Kind string

const (
	KindMissingField           Kind = "MissingField"
	KindInvalidEmailFormat     Kind = "InvalidEmailFormat"
	KindWeakPassword           Kind = "WeakPassword"
	KindAccountTypeInvalid     Kind = "AccountTypeInvalid"
	KindMalformedCode          Kind = "MalformedCode"
	KindEmailAlreadyRegistered Kind = "EmailAlreadyRegistered"
	KindAccountNotFound        Kind = "AccountNotFound"
	KindNoPendingVerification  Kind = "NoPendingVerification"
	KindCodeExpired            Kind = "CodeExpired"
	KindCodeMismatch           Kind = "CodeMismatch"
	KindTooManyAttempts        Kind = "TooManyAttempts"
	KindStoreUnavailable       Kind = "StoreUnavailable"
)

// Error pairs a Kind with its stable message and a sentinel class.
// errors.Is(err, ErrNotFound) etc. keeps working through Unwrap.
type Error struct {
	Kind    Kind
	Message string
	class   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.class }

// One value per kind; messages are stable and never carry store internals.
var (
	ErrMissingField           = &Error{KindMissingField, "all fields are required", ErrBadRequest}
	ErrInvalidEmailFormat     = &Error{KindInvalidEmailFormat, "a valid email address is required", ErrBadRequest}
	ErrWeakPassword           = &Error{KindWeakPassword, "password must be between 8 and 72 characters", ErrBadRequest}
	ErrAccountTypeInvalid     = &Error{KindAccountTypeInvalid, "account type must be buyer, seller or agent", ErrBadRequest}
	ErrMalformedCode          = &Error{KindMalformedCode, "verification code must be 6 digits", ErrBadRequest}
	ErrEmailAlreadyRegistered = &Error{KindEmailAlreadyRegistered, "email is already registered", ErrConflict}
	ErrAccountNotFound        = &Error{KindAccountNotFound, "no account registered with this email", ErrNotFound}
	ErrNoPendingVerification  = &Error{KindNoPendingVerification, "no pending verification for this email", ErrNotFound}
	ErrCodeExpired            = &Error{KindCodeExpired, "verification code has expired, request a new one", ErrUnauthorized}
	ErrCodeMismatch           = &Error{KindCodeMismatch, "verification code is incorrect", ErrUnauthorized}
	ErrTooManyAttempts        = &Error{KindTooManyAttempts, "too many failed attempts, request a new code", ErrUnauthorized}
	ErrStoreUnavailable       = &Error{KindStoreUnavailable, "account store is unavailable", ErrUnavailable}
)

// KindOf extracts the stable kind from err, or "" when err carries none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
