package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxPriceScale is the number of fractional digits a price may carry.
// It matches the NUMERIC(14,2) column used by the postgres schema.
const MaxPriceScale = 2

// Money represents a monetary value with exact decimal arithmetic.
// The zero value is 0.
type Money struct {
	d decimal.Decimal
}

// NewMoneyFromString parses a decimal string such as "12.50".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: price %q is not a decimal number", ErrInvalidPrice, s)
	}
	return Money{d: d}, nil
}

// NewMoneyFromDecimal wraps a decimal value.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// NewMoneyFromRat converts a rational (as returned by Spanner NUMERIC columns).
func NewMoneyFromRat(r *big.Rat) (Money, error) {
	if r == nil {
		return Money{}, nil
	}
	// Spanner NUMERIC carries at most 9 fractional digits.
	return NewMoneyFromString(r.FloatString(9))
}

// MustMoney parses s and panics on error. Intended for tests and constants.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Rat returns the value as a big.Rat for Spanner NUMERIC parameters.
func (m Money) Rat() *big.Rat {
	return m.d.Rat()
}

// IsNegative returns true if the money value is negative.
func (m Money) IsNegative() bool {
	return m.d.Sign() < 0
}

// IsZero returns true if the money value is zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// Scale returns the number of significant fractional digits.
func (m Money) Scale() int32 {
	// Exponent alone over-reports for values like 12.50; drop trailing zeros first.
	exp := m.d.Exponent()
	if exp >= 0 {
		return 0
	}
	coef := new(big.Int).Set(m.d.Coefficient())
	ten := big.NewInt(10)
	rem := new(big.Int)
	scale := -exp
	for scale > 0 {
		q, r := new(big.Int).QuoRem(coef, ten, rem)
		if r.Sign() != 0 {
			break
		}
		coef = q
		scale--
	}
	return scale
}

// Equals reports exact decimal equality (12.5 equals 12.50).
func (m Money) Equals(other Money) bool {
	return m.d.Equal(other.d)
}

// Validate checks the value fits the price column.
func (m Money) Validate() error {
	if m.IsNegative() {
		return fmt.Errorf("%w: price %s is negative", ErrInvalidPrice, m)
	}
	if m.Scale() > MaxPriceScale {
		return fmt.Errorf("%w: price %s has more than %d decimal places", ErrInvalidPrice, m, MaxPriceScale)
	}
	return nil
}

// String renders the value with at least two decimal places ("12.50"), and
// more only when the value carries them.
func (m Money) String() string {
	if m.Scale() <= MaxPriceScale {
		return m.d.StringFixed(MaxPriceScale)
	}
	return m.d.String()
}
