package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailRule = validator.New()

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail applies the same "required,email" rule the HTTP layer validates
// request bodies with.
func ValidEmail(email string) bool {
	return emailRule.Var(email, "required,email") == nil
}
