package ledger

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// contribute adds (or with add=false, removes) every unpaid obligation of a to
// the net map and makes sure everyone in a has an entry.
func (l *Ledger) contribute(a *models.Activity, add bool) {
	payer := a.Payer().Name
	l.touch(payer)
	for _, p := range a.Owed() {
		l.touch(p.Name)
		if p.Paid {
			continue
		}
		amount := p.Amount
		if !add {
			amount = amount.Neg()
		}
		l.shift(payer, p.Name, amount)
	}
}

// shift moves amount of debt: debtor's balance falls, creditor's rises.
func (l *Ledger) shift(creditor, debtor string, amount decimal.Decimal) {
	l.net[creditor] = l.net[creditor].Add(amount)
	l.net[debtor] = l.net[debtor].Sub(amount)
}

func (l *Ledger) touch(name string) {
	if _, ok := l.net[name]; !ok {
		l.net[name] = decimal.Zero
	}
}

// prune drops names that have a zero balance and appear in no record.
func (l *Ledger) prune(names ...string) {
	for _, name := range names {
		bal, ok := l.net[name]
		if !ok || !bal.IsZero() {
			continue
		}
		mentioned := false
		for _, a := range l.records {
			if a.Involves(name) {
				mentioned = true
				break
			}
		}
		if !mentioned {
			delete(l.net, name)
		}
	}
}

// Recompute derives the net-balance map from scratch. It always matches
// Balances; it exists to check the incremental bookkeeping.
func (l *Ledger) Recompute() map[string]decimal.Decimal {
	scratch := &Ledger{net: make(map[string]decimal.Decimal)}
	for _, a := range l.records {
		scratch.contribute(a, true)
	}
	return scratch.net
}
