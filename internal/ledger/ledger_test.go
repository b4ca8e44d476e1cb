package ledger

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func shares(pairs ...string) []models.Share {
	out := make([]models.Share, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Share{Name: pairs[i], Amount: d(pairs[i+1])})
	}
	return out
}

// lunchAndDinner builds the two-record fixture:
// John pays lunch for Jane (30) and Jake (20); Jane pays dinner for John (20) and Jake (20).
func lunchAndDinner(t *testing.T) *Ledger {
	t.Helper()
	l := New()
	if _, err := l.AddExpense("lunch", "John", decimal.Zero, shares("Jane", "30", "Jake", "20")); err != nil {
		t.Fatalf("AddExpense lunch failed: %v", err)
	}
	if _, err := l.AddExpense("dinner", "Jane", decimal.Zero, shares("John", "20", "Jake", "20")); err != nil {
		t.Fatalf("AddExpense dinner failed: %v", err)
	}
	return l
}

func assertBalance(t *testing.T, l *Ledger, name, want string) {
	t.Helper()
	got, err := l.NetBalanceOf(name)
	if err != nil {
		t.Fatalf("NetBalanceOf(%s) failed: %v", name, err)
	}
	if !got.Equal(d(want)) {
		t.Errorf("NetBalanceOf(%s) = %s, want %s", name, got, want)
	}
}

// assertConsistent checks the zero-sum invariant and that the incremental map
// matches a from-scratch recomputation.
func assertConsistent(t *testing.T, l *Ledger) {
	t.Helper()
	sum := decimal.Zero
	balances := l.Balances()
	for _, bal := range balances {
		sum = sum.Add(bal)
	}
	if !sum.IsZero() {
		t.Errorf("net balances sum to %s, want 0", sum)
	}

	scratch := l.Recompute()
	if len(scratch) != len(balances) {
		t.Errorf("recompute has %d names, incremental has %d", len(scratch), len(balances))
	}
	for name, bal := range scratch {
		if got, ok := balances[name]; !ok || !got.Equal(bal) {
			t.Errorf("balance for %s: incremental %s, recomputed %s", name, got, bal)
		}
	}
}

func TestLunchAndDinner(t *testing.T) {
	l := lunchAndDinner(t)

	assertBalance(t, l, "John", "30")
	assertBalance(t, l, "Jane", "10")
	assertBalance(t, l, "Jake", "-40")
	assertConsistent(t, l)

	txs := l.Settle()
	if len(txs) > 2 {
		t.Errorf("got %d transactions, want at most 2", len(txs))
	}
	// Settle works on a copy
	assertBalance(t, l, "Jake", "-40")
}

func TestAddExpenseValidation(t *testing.T) {
	tests := []struct {
		name    string
		desc    string
		payer   string
		adj     string
		owed    []models.Share
		wantErr error
	}{
		{"missing description", "", "John", "0", shares("Jane", "1"), models.ErrMissingDescription},
		{"missing payer", "x", "", "0", shares("Jane", "1"), models.ErrMissingPayer},
		{"no participants", "x", "John", "0", nil, models.ErrNoParticipants},
		{"self owing", "x", "John", "0", shares("John", "1"), models.ErrSelfOwing},
		{"duplicate", "x", "John", "0", shares("Jane", "1", "Jane", "2"), models.ErrDuplicateParticipant},
		{"too many decimals", "x", "John", "0", shares("Jane", "1.001"), models.ErrInvalidAmount},
		{"negative", "x", "John", "0", shares("Jane", "-1"), models.ErrInvalidAmount},
		{"over the limit", "x", "John", "0", shares("Jane", "10000.01"), models.ErrAmountTooLarge},
		{"adjustment over the limit", "x", "John", "-20000", shares("Jane", "1"), models.ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			_, err := l.AddExpense(tt.desc, tt.payer, d(tt.adj), tt.owed)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddExpense error = %v, want %v", err, tt.wantErr)
			}
			if l.Len() != 0 || len(l.Balances()) != 0 {
				t.Errorf("failed add changed state: %d records, %d balances", l.Len(), len(l.Balances()))
			}
		})
	}
}

func TestAddExpenseWithPayerAdjustment(t *testing.T) {
	l := New()
	a, err := l.AddExpense("groceries", "Ann", d("-15"), shares("Bo", "10"))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if !a.Payer().Amount.Equal(d("-15")) {
		t.Errorf("payer amount = %s, want -15", a.Payer().Amount)
	}
	assertBalance(t, l, "Ann", "10")
	assertBalance(t, l, "Bo", "-10")
}

func TestWithMaxAmount(t *testing.T) {
	l := New(WithMaxAmount(d("50")))
	if _, err := l.AddExpense("x", "Ann", decimal.Zero, shares("Bo", "50.01")); !errors.Is(err, models.ErrAmountTooLarge) {
		t.Errorf("error = %v, want ErrAmountTooLarge", err)
	}
	if _, err := l.AddExpense("x", "Ann", decimal.Zero, shares("Bo", "50")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWithDelimiter(t *testing.T) {
	l := New(WithDelimiter('|'))
	if _, err := l.AddExpense("a|b", "Ann", decimal.Zero, shares("Bo", "1")); !errors.Is(err, models.ErrDelimiterInText) {
		t.Errorf("description error = %v, want ErrDelimiterInText", err)
	}
	if _, err := l.AddExpense("ab", "Ann", decimal.Zero, shares("B|o", "1")); !errors.Is(err, models.ErrDelimiterInText) {
		t.Errorf("name error = %v, want ErrDelimiterInText", err)
	}
	if _, err := l.AddExpense("ab", "Ann", decimal.Zero, shares("Bo", "1")); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if err := l.EditDescription(1, "x|y"); !errors.Is(err, models.ErrDelimiterInText) {
		t.Errorf("edit error = %v, want ErrDelimiterInText", err)
	}
}

func TestAddEqualSplit(t *testing.T) {
	l := New()
	a, err := l.AddEqualSplit("taxi", "Ann", d("10"), []string{"Bo", "Cy"})
	if err != nil {
		t.Fatalf("AddEqualSplit failed: %v", err)
	}

	for _, p := range a.Owed() {
		if !p.Amount.Equal(d("3.33")) {
			t.Errorf("%s share = %s, want 3.33", p.Name, p.Amount)
		}
	}
	if !a.Payer().Amount.Equal(d("-6.67")) {
		t.Errorf("payer amount = %s, want -6.67", a.Payer().Amount)
	}
	// payer absorbs the remainder: 10 - 3.33
	if got := a.Payer().Amount.Neg().Add(a.Owed()[0].Amount); !got.Equal(d("10")) {
		t.Errorf("|payer| + share = %s, want 10", got)
	}

	assertBalance(t, l, "Ann", "6.66")
	assertBalance(t, l, "Bo", "-3.33")
	assertConsistent(t, l)

	t.Run("rejects", func(t *testing.T) {
		if _, err := l.AddEqualSplit("x", "Ann", d("10"), nil); !errors.Is(err, models.ErrNoParticipants) {
			t.Errorf("error = %v, want ErrNoParticipants", err)
		}
		if _, err := l.AddEqualSplit("x", "Ann", d("0"), []string{"Bo"}); !errors.Is(err, models.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
		if _, err := l.AddEqualSplit("x", "Ann", d("0.01"), []string{"Bo", "Cy"}); !errors.Is(err, models.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount for a zero share", err)
		}
		if _, err := l.AddEqualSplit("x", "Ann", d("9"), []string{"Bo", "Ann"}); !errors.Is(err, models.ErrSelfOwing) {
			t.Errorf("error = %v, want ErrSelfOwing", err)
		}
		if l.Len() != 1 {
			t.Errorf("Len() = %d after rejected splits, want 1", l.Len())
		}
	})
}

func TestDeleteExpense(t *testing.T) {
	l := lunchAndDinner(t)

	if err := l.DeleteExpense(3); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Errorf("error = %v, want ErrIndexOutOfRange", err)
	}
	if err := l.DeleteExpense(0); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Errorf("error = %v, want ErrIndexOutOfRange", err)
	}

	if err := l.DeleteExpense(1); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if l.Len() != 1 || l.ListAll()[0].Description() != "dinner" {
		t.Fatalf("unexpected records after delete: %d", l.Len())
	}
	assertBalance(t, l, "Jane", "40")
	assertBalance(t, l, "John", "-20")
	assertBalance(t, l, "Jake", "-20")
	assertConsistent(t, l)

	if err := l.DeleteExpense(1); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if _, err := l.NetBalanceOf("Jane"); !errors.Is(err, models.ErrParticipantNotFound) {
		t.Errorf("error = %v, want ErrParticipantNotFound on empty ledger", err)
	}
}

func TestEdits(t *testing.T) {
	t.Run("description", func(t *testing.T) {
		l := lunchAndDinner(t)
		before := l.Balances()
		if err := l.EditDescription(1, "brunch"); err != nil {
			t.Fatalf("EditDescription failed: %v", err)
		}
		if l.ListAll()[0].Description() != "brunch" {
			t.Error("description not updated")
		}
		for name, bal := range l.Balances() {
			if !bal.Equal(before[name]) {
				t.Errorf("balance of %s changed", name)
			}
		}
		if err := l.EditDescription(1, ""); !errors.Is(err, models.ErrMissingDescription) {
			t.Errorf("error = %v, want ErrMissingDescription", err)
		}
	})

	t.Run("payer name", func(t *testing.T) {
		l := lunchAndDinner(t)
		if err := l.EditPayerName(1, "Johnny"); err != nil {
			t.Fatalf("EditPayerName failed: %v", err)
		}
		assertBalance(t, l, "Johnny", "50")
		assertBalance(t, l, "John", "-20")
		assertConsistent(t, l)

		if err := l.EditPayerName(1, "Jake"); !errors.Is(err, models.ErrSelfOwing) {
			t.Errorf("error = %v, want ErrSelfOwing", err)
		}
	})

	t.Run("payer name removes forgotten key", func(t *testing.T) {
		l := New()
		l.AddExpense("x", "Ann", decimal.Zero, shares("Bo", "5"))
		if err := l.EditPayerName(1, "Anna"); err != nil {
			t.Fatalf("EditPayerName failed: %v", err)
		}
		if _, err := l.NetBalanceOf("Ann"); !errors.Is(err, models.ErrParticipantNotFound) {
			t.Errorf("Ann still present: %v", err)
		}
		assertConsistent(t, l)
	})

	t.Run("participant name", func(t *testing.T) {
		l := lunchAndDinner(t)
		if err := l.EditParticipantName(1, "Jake", "Jacob"); err != nil {
			t.Fatalf("EditParticipantName failed: %v", err)
		}
		assertBalance(t, l, "Jacob", "-20")
		assertBalance(t, l, "Jake", "-20")
		assertConsistent(t, l)

		if err := l.EditParticipantName(1, "Nobody", "Somebody"); err != nil {
			t.Errorf("renaming an absent participant should be a no-op, got %v", err)
		}
		if _, err := l.NetBalanceOf("Somebody"); err == nil {
			t.Error("no-op rename created a balance entry")
		}
	})

	t.Run("participant amount", func(t *testing.T) {
		l := lunchAndDinner(t)
		if err := l.EditParticipantAmount(1, "Jane", d("35")); err != nil {
			t.Fatalf("EditParticipantAmount failed: %v", err)
		}
		assertBalance(t, l, "John", "35")
		assertBalance(t, l, "Jane", "5")
		assertConsistent(t, l)

		if err := l.EditParticipantAmount(1, "Nobody", d("1")); !errors.Is(err, models.ErrParticipantNotFound) {
			t.Errorf("error = %v, want ErrParticipantNotFound", err)
		}
		if err := l.EditParticipantAmount(1, "Jane", d("0")); !errors.Is(err, models.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("settled amount is immutable", func(t *testing.T) {
		l := lunchAndDinner(t)
		if err := l.MarkPaid("Jane", 1); err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if err := l.EditParticipantAmount(1, "Jane", d("1")); !errors.Is(err, models.ErrAmountSettled) {
			t.Errorf("error = %v, want ErrAmountSettled", err)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		l := lunchAndDinner(t)
		if err := l.EditDescription(9, "x"); !errors.Is(err, models.ErrIndexOutOfRange) {
			t.Errorf("error = %v, want ErrIndexOutOfRange", err)
		}
	})
}

func TestListAllIsIdempotentAndDetached(t *testing.T) {
	l := lunchAndDinner(t)

	first := l.ListAll()
	second := l.ListAll()
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i].Fields(), second[i].Fields()
		if len(a) != len(b) {
			t.Fatalf("record %d field count differs", i)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Errorf("record %d field %d: %q vs %q", i, j, a[j], b[j])
			}
		}
	}

	first[0].SetPaid("Jane", true)
	if l.ListAll()[0].IsFullyPaid("Jane", false) {
		t.Error("mutating a listed record changed the ledger")
	}
}

func TestListFor(t *testing.T) {
	l := lunchAndDinner(t)

	paid, unpaid := l.ListFor("Jake")
	if len(paid) != 0 || len(unpaid) != 2 {
		t.Fatalf("Jake: %d paid, %d unpaid; want 0, 2", len(paid), len(unpaid))
	}

	if err := l.MarkPaid("Jake", 2); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	paid, unpaid = l.ListFor("Jake")
	if len(paid) != 1 || paid[0].Description() != "dinner" {
		t.Errorf("Jake paid list = %v", paid)
	}
	if len(unpaid) != 1 || unpaid[0].Description() != "lunch" {
		t.Errorf("Jake unpaid list = %v", unpaid)
	}

	paid, unpaid = l.ListFor("Nobody")
	if len(paid)+len(unpaid) != 0 {
		t.Error("unknown person should have no records")
	}
}
