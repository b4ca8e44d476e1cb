package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMaxAmount is the largest single amount accepted unless configured otherwise.
var DefaultMaxAmount = decimal.NewFromInt(10000)

// ValidateAmount checks that amount is money-shaped: positive, at most two decimal
// places, and no larger than max.
func ValidateAmount(amount, max decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(max) {
		return fmt.Errorf("%w: %s > %s", ErrAmountTooLarge, amount.StringFixed(2), max.StringFixed(2))
	}
	return nil
}

// ParseAmount parses user input into a money-shaped amount.
func ParseAmount(s string, max decimal.Decimal) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrFormat)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cannot parse amount %q", ErrFormat, s)
	}
	if err := ValidateAmount(d, max); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateText rejects user text that contains the persistence field delimiter.
func ValidateText(s string, delim byte) error {
	if strings.IndexByte(s, delim) >= 0 {
		return fmt.Errorf("%w: %q", ErrDelimiterInText, s)
	}
	return nil
}
