package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// Email is a lowercased, validated email address.
type Email string

// NewEmail validates and normalizes a raw email address.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" || !emailPattern.MatchString(normalized) {
		return "", ErrInvalidEmail
	}
	return Email(normalized), nil
}

// String returns the normalized address.
func (e Email) String() string {
	return string(e)
}
