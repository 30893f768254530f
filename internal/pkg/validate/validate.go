package validate

import (
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. The raw
// validator.ValidationErrors is returned so callers can map individual field
// failures to their own error taxonomy.
func Struct(s interface{}) error {
	return v.Struct(s)
}

// Var validates a single value against a tag expression, e.g. "required,email".
func Var(value interface{}, tag string) error {
	return v.Var(value, tag)
}
