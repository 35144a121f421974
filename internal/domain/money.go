package domain

import "fmt"

// Money is a non-negative amount in integer cents with a currency tag.
// All arithmetic stays in cents; there is deliberately no float anywhere.
type Money struct {
	Cents    int64
	Currency string
}

// NewMoney validates and builds a Money value.
func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	if currency == "" {
		currency = "BRL"
	}
	return Money{Cents: cents, Currency: currency}, nil
}

// Add returns the sum of two amounts in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// Sub returns the difference of two amounts in the same currency.
// A result below zero is rejected, never clamped.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	if m.Cents < other.Cents {
		return Money{}, ErrNegativeAmount
	}
	return Money{Cents: m.Cents - other.Cents, Currency: m.Currency}, nil
}

// MulQty multiplies the amount by a non-negative quantity.
func (m Money) MulQty(qty int64) (Money, error) {
	if qty < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{Cents: m.Cents * qty, Currency: m.Currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String formats the amount for logs, e.g. "BRL 45.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.Currency, m.Cents/100, m.Cents%100)
}
