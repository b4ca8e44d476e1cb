package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EqualShare divides total evenly between the payer and a number of other participants.
//
// Each participant's share is total / (participants + 1), rounded to cents with
// round-half-to-even. The payer's signed amount is -(total - share), so the payer
// absorbs the rounding remainder and share*participants + payerAmount == 0 holds
// whenever the rounded shares are summed back.
func EqualShare(total decimal.Decimal, participants int) (share, payerAmount decimal.Decimal, err error) {
	if participants < 1 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("must have at least one participant")
	}
	if !total.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("total must be positive")
	}

	heads := decimal.NewFromInt(int64(participants + 1))
	share = total.DivRound(heads, 16).RoundBank(2)
	payerAmount = total.Sub(share).Neg()
	return share, payerAmount, nil
}
