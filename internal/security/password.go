package security

import (
	"net/mail"
	"strings"
	"unicode"
)

const minPasswordLength = 8

// Short list of passwords rejected outright. Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"qwerty123":  {},
	"iloveyou":   {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwertyuiop": {},
	"asdfghjkl":  {},
	"letmein123": {},
}

// Password rule violations, reported per rule so the client can show every
// failing rule at once.
const (
	PasswordErrTooShort   = "password_too_short"
	PasswordErrTooCommon  = "password_too_common"
	PasswordErrAllNumeric = "password_all_numeric"
)

// ValidatePasswordFormat returns the list of violated rule kinds, empty when
// the password is acceptable.
func ValidatePasswordFormat(password string) []string {
	var violations []string
	if len(password) < minPasswordLength {
		violations = append(violations, PasswordErrTooShort)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		violations = append(violations, PasswordErrTooCommon)
	}
	if password != "" && allDigits(password) {
		violations = append(violations, PasswordErrAllNumeric)
	}
	return violations
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func ValidEmail(address string) bool {
	if address == "" {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	return err == nil && parsed.Address == address
}
