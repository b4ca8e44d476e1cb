package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Settlement is a proposed payment that moves two net balances toward zero.
// Settlements are produced on demand and never stored.
type Settlement struct {
	// From is the debtor making the payment.
	From string

	// To is the creditor receiving it.
	To string

	Amount decimal.Decimal
}

// String renders the settlement with the amount fixed to two decimal places.
func (s Settlement) String() string {
	return fmt.Sprintf("%s pays %s %s", s.From, s.To, s.Amount.StringFixed(2))
}
