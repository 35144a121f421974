package domain

import platformphone "salon_booking_backend/platform/phone"

// Phone is a phone number in digits-only canonical form (E.164 without the
// leading plus). Customers are identified primarily by this value.
type Phone string

// NewPhone validates and normalizes a raw phone number.
func NewPhone(raw string) (Phone, error) {
	canonical := platformphone.Canonical(raw)
	if canonical == "" {
		return "", ErrInvalidPhone
	}
	return Phone(canonical), nil
}

// String returns the canonical digits.
func (p Phone) String() string {
	return string(p)
}

// E164 returns the number with the leading plus, for outbound gateways
// that require full E.164.
func (p Phone) E164() string {
	return "+" + string(p)
}
