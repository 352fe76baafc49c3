// Package password hashes and checks staff passwords with bcrypt.
package password

import (
	"unicode"

	"tentquote_backend/platform/apperr"

	"golang.org/x/crypto/bcrypt"
)

// Policy describes the password requirements for error messages.
const Policy = "password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number and a special character"

// Hash returns the bcrypt hash of plain.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns nil when plain matches hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// CheckStrength enforces Policy.
func CheckStrength(plain string) error {
	if len(plain) < 8 {
		return apperr.Validation(Policy).WithOp("password.check_strength")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, char := range plain {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return apperr.Validation(Policy).WithOp("password.check_strength")
	}
	return nil
}
