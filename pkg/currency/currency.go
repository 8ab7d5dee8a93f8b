// Package currency converts between display prices and atomic amounts.
//
// One display unit is 10^24 atomic units. Display prices carry at most
// three fractional digits; anything finer is rejected rather than
// rounded.
package currency

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals is the number of atomic decimal places in one display unit.
const Decimals = 24

// Precision is the number of fractional digits a display price may carry.
const Precision = 3

var (
	ErrPrecision = errors.New("price has more than 3 fractional digits")
	ErrNegative  = errors.New("price is negative")
	ErrOverflow  = errors.New("price overflows 256 bits")
)

var (
	// One is a single display unit in atomic units.
	One = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))

	milli = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals-Precision))
)

// CheckPrecision reports whether display*1000 is an integer.
func CheckPrecision(display decimal.Decimal) error {
	if !display.Shift(Precision).IsInteger() {
		return fmt.Errorf("%s: %w", display, ErrPrecision)
	}
	return nil
}

// ToAtomic converts a display price into atomic units.
func ToAtomic(display decimal.Decimal) (*uint256.Int, error) {
	if display.IsNegative() {
		return nil, fmt.Errorf("%s: %w", display, ErrNegative)
	}
	if err := CheckPrecision(display); err != nil {
		return nil, err
	}
	v, overflow := uint256.FromBig(display.Shift(Decimals).BigInt())
	if overflow {
		return nil, fmt.Errorf("%s: %w", display, ErrOverflow)
	}
	return v, nil
}

// ToDisplay renders an atomic amount as a display string with up to
// three fractional digits. Sub-milli remainders are truncated.
func ToDisplay(atomic *uint256.Int) string {
	if atomic == nil {
		return "0"
	}
	millis := new(uint256.Int).Div(atomic, milli)
	return decimal.NewFromBigInt(millis.ToBig(), -Precision).String()
}

// ParseDisplay parses a decimal display string such as "1.234".
func ParseDisplay(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", s, err)
	}
	return d, nil
}

// ParseAtomic parses a base-10 atomic amount.
func ParseAtomic(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

// DisplayToAtomic parses a display string and converts it to atomic units.
func DisplayToAtomic(s string) (*uint256.Int, error) {
	d, err := ParseDisplay(s)
	if err != nil {
		return nil, err
	}
	return ToAtomic(d)
}
