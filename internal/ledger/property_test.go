package ledger

import (
	"math/rand"
	"testing"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

var people = []string{"Ann", "Bo", "Cy", "Di", "Ed"}

func randomCents(rng *rand.Rand) decimal.Decimal {
	return decimal.New(1+rng.Int63n(50000), -2)
}

func randomOthers(rng *rand.Rand, payer string) []string {
	var out []string
	for _, p := range people {
		if p != payer && rng.Intn(2) == 0 {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		for _, p := range people {
			if p != payer {
				return []string{p}
			}
		}
	}
	return out
}

// step applies one random operation. Errors are expected for some inputs;
// the invariants must hold either way.
func step(rng *rand.Rand, l *Ledger) {
	pick := func() string { return people[rng.Intn(len(people))] }
	index := func() int { return 1 + rng.Intn(l.Len()+1) }

	switch rng.Intn(9) {
	case 0, 1:
		payer := pick()
		var owed []models.Share
		for _, name := range randomOthers(rng, payer) {
			owed = append(owed, models.Share{Name: name, Amount: randomCents(rng)})
		}
		l.AddExpense("random", payer, decimal.Zero, owed)
	case 2:
		payer := pick()
		l.AddEqualSplit("split", payer, randomCents(rng), randomOthers(rng, payer))
	case 3:
		if l.Len() > 0 {
			l.DeleteExpense(index())
		}
	case 4:
		l.MarkPaid(pick(), 1+rng.Intn(3))
	case 5:
		l.MarkUnpaid(pick(), 1+rng.Intn(3))
	case 6:
		l.EditParticipantAmount(index(), pick(), randomCents(rng))
	case 7:
		l.EditParticipantName(index(), pick(), pick())
	case 8:
		l.EditPayerName(index(), pick())
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 20; run++ {
		l := New()
		for i := 0; i < 150; i++ {
			step(rng, l)
			assertConsistent(t, l)
			if t.Failed() {
				t.Fatalf("invariant broken in run %d at step %d", run, i)
			}
		}

		balances := l.Balances()
		txs := l.Settle()
		k := 0
		for _, bal := range balances {
			if !bal.IsZero() {
				k++
			}
		}
		if k > 0 && len(txs) > k-1 {
			t.Errorf("run %d: %d transactions for %d non-zero balances", run, len(txs), k)
		}
		for name, bal := range calculator.ApplySettlements(balances, txs) {
			if bal.Abs().GreaterThan(calculator.Epsilon) {
				t.Errorf("run %d: %s left at %s after settlement", run, name, bal)
			}
		}
	}
}
