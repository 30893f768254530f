// Package code generates and checks 6-digit numeric verification codes.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// Length is the fixed width of a rendered code.
const Length = 6

var max = big.NewInt(1_000_000)

// Generate returns a uniformly random code in [000000, 999999].
// Codes are scoped per email, so collisions across addresses are fine.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return Render(n.Int64()), nil
}

// Render formats n as a fixed-width zero-padded string, so 42 renders as "000042".
func Render(n int64) string {
	return fmt.Sprintf("%06d", n)
}

// Parse is the inverse of Render.
func Parse(s string) (int64, error) {
	if !Valid(s) {
		return 0, fmt.Errorf("malformed verification code %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// Valid reports whether s is exactly 6 ASCII digits.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
