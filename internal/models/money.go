package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of decimal digits in one major currency unit.
const MinorUnitDigits = 2

// Epsilon is the smallest currency unit. A balance whose magnitude is below
// Epsilon is settled.
const Epsilon Money = 1

var (
	ErrInvalidMoney  = errors.New("invalid money amount")
	ErrSubMinorUnit  = errors.New("amount has more precision than the smallest currency unit")
	ErrMoneyOverflow = errors.New("amount out of range")
)

// Money is an exact monetary amount in minor units (cents).
// Positive and negative values are both valid; balances use the sign.
type Money int64

// maxMajor bounds parsed values so that Money arithmetic on realistic
// ledgers cannot overflow int64.
var maxMajor = decimal.New(1, 15)

// ParseMoney parses a decimal string such as "12.34", "12,34" or "12".
// Values with more than MinorUnitDigits fractional digits are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts an exact decimal into Money.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThanOrEqual(maxMajor) {
		return 0, ErrMoneyOverflow
	}
	if !d.Round(MinorUnitDigits).Equal(d) {
		return 0, fmt.Errorf("%w: %s", ErrSubMinorUnit, d.String())
	}
	return Money(d.Shift(MinorUnitDigits).IntPart()), nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitDigits)
}

// String formats the amount with exactly MinorUnitDigits fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnitDigits)
}

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// IsSettled reports whether m is within Epsilon of zero.
func (m Money) IsSettled() bool {
	return m.Abs() < Epsilon
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMoney, err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
