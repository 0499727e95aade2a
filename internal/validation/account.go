// Package validation checks user-supplied fields before they reach storage.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// ValidateUsername accepts 3-30 letters, digits and underscores, not starting
// or ending with an underscore.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, and underscores")
	}
	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		return fmt.Errorf("username cannot start or end with an underscore")
	}
	return nil
}

// ValidateEmail checks for a bare address of at most 254 characters.
func ValidateEmail(email string) error {
	if email == "" || len(email) > 254 {
		return fmt.Errorf("email must be between 1 and 254 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword requires 12-128 characters with upper and lower case
// letters, a digit and a special character.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 12 || n > 128 {
		return fmt.Errorf("password must be between 12 and 128 characters")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return fmt.Errorf("password must contain upper and lower case letters, a digit and a special character")
	}
	return nil
}

// ValidateFullName requires a non-blank name of at most 100 characters.
func ValidateFullName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > 100 {
		return fmt.Errorf("full name must be between 1 and 100 characters")
	}
	return nil
}
