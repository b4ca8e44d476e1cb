package calculator

import (
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// Epsilon is the balance magnitude below which a person counts as settled.
var Epsilon = decimal.New(1, -9)

// Settle reduces net balances to an ordered list of payments.
//
// Positive balances are creditors, negative are debtors. Each round pairs the
// largest creditor with the largest debtor and moves min(credit, |debt|) between
// them, which fully settles at least one of the two. For k people with a
// non-zero balance the result has at most k-1 transactions.
//
// Ties go to the lexicographically smallest name. The input map is not modified.
func Settle(balances map[string]decimal.Decimal) []models.Settlement {
	names := make([]string, 0, len(balances))
	working := make(map[string]decimal.Decimal, len(balances))
	for name, bal := range balances {
		names = append(names, name)
		working[name] = bal
	}
	sort.Strings(names)

	var result []models.Settlement
	for len(names) > 0 {
		creditor, debtor := names[0], names[0]
		maxBal, minBal := working[creditor], working[debtor]
		for _, name := range names[1:] {
			bal := working[name]
			if bal.GreaterThan(maxBal) {
				creditor, maxBal = name, bal
			}
			if bal.LessThan(minBal) {
				debtor, minBal = name, bal
			}
		}

		if maxBal.LessThan(Epsilon) || minBal.GreaterThan(Epsilon.Neg()) {
			break
		}

		amount := decimal.Min(maxBal, minBal.Abs())
		working[creditor] = maxBal.Sub(amount)
		working[debtor] = minBal.Add(amount)

		result = append(result, models.Settlement{
			From:   debtor,
			To:     creditor,
			Amount: amount,
		})
	}

	return result
}

// ApplySettlements returns a copy of balances with every settlement applied:
// the debtor's balance rises and the creditor's falls by the amount paid.
func ApplySettlements(balances map[string]decimal.Decimal, settlements []models.Settlement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(balances))
	for name, bal := range balances {
		out[name] = bal
	}
	for _, s := range settlements {
		out[s.From] = out[s.From].Add(s.Amount)
		out[s.To] = out[s.To].Sub(s.Amount)
	}
	return out
}
