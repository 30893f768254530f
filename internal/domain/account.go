package domain

import (
	"strings"
	"time"
)

// Account types recognized at registration.
const (
	AccountTypeBuyer  = "buyer"
	AccountTypeSeller = "seller"
	AccountTypeAgent  = "agent"
)

// Account is the identity record. The lower-cased email is the table key, so
// email uniqueness is enforced by a conditional write rather than a scan.
type Account struct {
	Email        string    `json:"email" dynamodbav:"email"`
	AccountID    string    `json:"id" dynamodbav:"account_id"`
	FirstName    string    `json:"first_name" dynamodbav:"first_name"`
	LastName     string    `json:"last_name" dynamodbav:"last_name"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	AccountType  string    `json:"account_type" dynamodbav:"account_type"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// SafeAccount is the public projection returned after registration.
// It never carries the password hash or the verification code.
type SafeAccount struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (a *Account) Safe() *SafeAccount {
	return &SafeAccount{
		ID:        a.AccountID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// RegisterRequest is the registration payload. Tag order matters: the
// validator reports failures field by field, and the service maps the first
// one to a stable error kind.
type RegisterRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	AccountType string `json:"account_type" validate:"required,oneof=buyer seller agent"`
}

// NormalizeEmail canonicalizes an email for use as a store key.
// Email is a case-insensitive key, so every lookup and write goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
