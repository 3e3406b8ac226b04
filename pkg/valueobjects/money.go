// pkg/valueobjects/money.go
package valueobjects

import (
	"fmt"
	"strings"

	"github.com/NomadCrew/vacation-recommender/errors"
	"github.com/shopspring/decimal"
)

// Currency represents a valid ISO 4217 currency code
type Currency string

// Supported currencies
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	NZD Currency = "NZD"
	SEK Currency = "SEK"
	INR Currency = "INR"
)

var validCurrencies = map[Currency]bool{
	USD: true,
	EUR: true,
	GBP: true,
	JPY: true,
	AUD: true,
	CAD: true,
	CHF: true,
	NZD: true,
	SEK: true,
	INR: true,
}

var hundred = decimal.NewFromInt(100)

// Money represents a monetary value with a specific currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money instance with validation
func NewMoney(amount decimal.Decimal, currency Currency) (*Money, error) {
	if !IsSupportedCurrency(string(currency)) {
		return nil, errors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}

	if amount.LessThan(decimal.Zero) {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot be negative",
		)
	}

	if amount.Exponent() < -2 {
		return nil, errors.ValidationFailed(
			"invalid amount",
			"amount cannot have more than 2 decimal places",
		)
	}

	return &Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromString creates a Money instance from string representations
func NewMoneyFromString(amount string, currency string) (*Money, error) {
	decimalAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.ValidationFailed(
			"invalid amount format",
			err.Error(),
		)
	}

	return NewMoney(decimalAmount, Currency(strings.ToUpper(currency)))
}

// IsSupportedCurrency reports whether code is an accepted ISO 4217 code.
func IsSupportedCurrency(code string) bool {
	return validCurrencies[Currency(strings.ToUpper(code))]
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Share returns floor(amount * percent / 100) in the same currency.
func (m Money) Share(percent int64) Money {
	return Money{
		amount:   m.amount.Mul(decimal.NewFromInt(percent)).Div(hundred).Floor(),
		currency: m.currency,
	}
}

// PerDay spreads the amount evenly over days, rounding down to whole units.
// Non-positive day counts leave the amount untouched.
func (m Money) PerDay(days int) Money {
	if days <= 0 {
		return m
	}
	return Money{
		amount:   m.amount.Div(decimal.NewFromInt(int64(days))).Floor(),
		currency: m.currency,
	}
}

// Float64 returns the amount as a float for JSON payloads.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equals checks if two monetary values are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a string representation of the money value
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}
