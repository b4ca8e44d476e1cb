// Package ledger keeps the ordered list of expense records together with the
// net balance of every person mentioned in them.
//
// The net-balance map is updated incrementally by every mutation and always
// equals what Recompute derives from the records. Every mutation validates its
// input before touching any state, so a failed call leaves the Ledger as it was.
//
// A Ledger is not safe for concurrent use; callers serialize access.
package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// Ledger owns expense records and the derived net balances.
type Ledger struct {
	records []*models.Activity
	net     map[string]decimal.Decimal

	maxAmount decimal.Decimal
	delim     byte
	checkText bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMaxAmount sets the largest accepted single amount (default 10000).
func WithMaxAmount(max decimal.Decimal) Option {
	return func(l *Ledger) {
		l.maxAmount = max
	}
}

// WithDelimiter makes the Ledger reject descriptions and names containing delim,
// the byte the persistence layer separates fields with.
func WithDelimiter(delim byte) Option {
	return func(l *Ledger) {
		l.delim = delim
		l.checkText = true
	}
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		net:       make(map[string]decimal.Decimal),
		maxAmount: models.DefaultMaxAmount,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxAmount returns the configured amount ceiling.
func (l *Ledger) MaxAmount() decimal.Decimal { return l.maxAmount }

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.records) }

func (l *Ledger) validateText(texts ...string) error {
	if !l.checkText {
		return nil
	}
	for _, s := range texts {
		if err := models.ValidateText(s, l.delim); err != nil {
			return err
		}
	}
	return nil
}

// record resolves a 1-based record index.
func (l *Ledger) record(index int) (*models.Activity, error) {
	if index < 1 || index > len(l.records) {
		return nil, fmt.Errorf("%w: record %d (have %d)", models.ErrIndexOutOfRange, index, len(l.records))
	}
	return l.records[index-1], nil
}

// AddExpense records an expense with explicit per-participant amounts.
// payerAdjustment is the payer's own signed figure and is usually zero.
func (l *Ledger) AddExpense(description, payer string, payerAdjustment decimal.Decimal, owed []models.Share) (*models.Activity, error) {
	a, err := models.NewActivity(description, payer, payerAdjustment, owed)
	if err != nil {
		return nil, err
	}
	for _, s := range owed {
		if err := models.ValidateAmount(s.Amount, l.maxAmount); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	if !payerAdjustment.IsZero() {
		if err := models.ValidateAmount(payerAdjustment.Abs(), l.maxAmount); err != nil {
			return nil, fmt.Errorf("payer adjustment: %w", err)
		}
	}
	if err := l.validateActivityText(a); err != nil {
		return nil, err
	}

	l.append(a)
	return a.Clone(), nil
}

// AddEqualSplit records an expense whose total is shared evenly between the
// payer and the named participants. See calculator.EqualShare for rounding.
func (l *Ledger) AddEqualSplit(description, payer string, total decimal.Decimal, names []string) (*models.Activity, error) {
	if len(names) == 0 {
		return nil, models.ErrNoParticipants
	}
	if err := models.ValidateAmount(total, l.maxAmount); err != nil {
		return nil, err
	}
	share, payerAmount, err := calculator.EqualShare(total, len(names))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	owed := make([]models.Share, len(names))
	for i, name := range names {
		owed[i] = models.Share{Name: name, Amount: share}
	}
	a, err := models.NewActivity(description, payer, payerAmount, owed)
	if err != nil {
		return nil, err
	}
	if err := l.validateActivityText(a); err != nil {
		return nil, err
	}

	l.append(a)
	return a.Clone(), nil
}

// Restore appends a previously persisted record as-is, paid flags included.
// The amount ceiling is not re-applied so a lowered limit never drops data.
func (l *Ledger) Restore(a *models.Activity) error {
	if a == nil {
		return models.ErrMalformedRecord
	}
	if err := l.validateActivityText(a); err != nil {
		return err
	}
	l.append(a.Clone())
	return nil
}

func (l *Ledger) validateActivityText(a *models.Activity) error {
	texts := []string{a.Description(), a.Payer().Name}
	for _, p := range a.Owed() {
		texts = append(texts, p.Name)
	}
	return l.validateText(texts...)
}

func (l *Ledger) append(a *models.Activity) {
	l.records = append(l.records, a)
	l.contribute(a, true)
}

// DeleteExpense removes the record at the 1-based index.
func (l *Ledger) DeleteExpense(index int) error {
	a, err := l.record(index)
	if err != nil {
		return err
	}

	l.contribute(a, false)
	l.records = append(l.records[:index-1], l.records[index:]...)

	names := []string{a.Payer().Name}
	for _, p := range a.Owed() {
		names = append(names, p.Name)
	}
	l.prune(names...)
	return nil
}

// ListAll returns copies of every record in insertion order.
func (l *Ledger) ListAll() []*models.Activity {
	out := make([]*models.Activity, len(l.records))
	for i, a := range l.records {
		out[i] = a.Clone()
	}
	return out
}

// ListFor splits the records involving name by whether they are settled from
// name's point of view (see Activity.IsFullyPaid).
func (l *Ledger) ListFor(name string) (paid, unpaid []*models.Activity) {
	for _, a := range l.involving(name, true) {
		paid = append(paid, a.Clone())
	}
	for _, a := range l.involving(name, false) {
		unpaid = append(unpaid, a.Clone())
	}
	return paid, unpaid
}

// involving returns the live records that involve name and are in the given
// paid state for name.
func (l *Ledger) involving(name string, paid bool) []*models.Activity {
	var out []*models.Activity
	for _, a := range l.records {
		if a.Involves(name) && a.IsFullyPaid(name, false) == paid {
			out = append(out, a)
		}
	}
	return out
}

// NetBalanceOf returns name's net position: positive when owed money,
// negative when owing.
func (l *Ledger) NetBalanceOf(name string) (decimal.Decimal, error) {
	bal, ok := l.net[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrParticipantNotFound, name)
	}
	return bal, nil
}

// Balances returns a copy of the net-balance map.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.net))
	for name, bal := range l.net {
		out[name] = bal
	}
	return out
}

// Outstanding returns the total still owed to creditors.
func (l *Ledger) Outstanding() decimal.Decimal {
	total := decimal.Zero
	for _, bal := range l.net {
		if bal.IsPositive() {
			total = total.Add(bal)
		}
	}
	return total
}

// Settle proposes the payments that would zero every net balance.
// The Ledger itself is not changed.
func (l *Ledger) Settle() []models.Settlement {
	return calculator.Settle(l.net)
}
