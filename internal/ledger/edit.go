package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// EditDescription replaces a record's description. Balances are unaffected.
func (l *Ledger) EditDescription(index int, description string) error {
	a, err := l.record(index)
	if err != nil {
		return err
	}
	if err := l.validateText(description); err != nil {
		return err
	}
	return a.SetDescription(description)
}

// EditPayerName renames a record's payer. Amounts stay the same; the record's
// contribution to net balances moves from the old name to the new one.
func (l *Ledger) EditPayerName(index int, name string) error {
	a, err := l.record(index)
	if err != nil {
		return err
	}
	if err := l.validateText(name); err != nil {
		return err
	}

	old := a.Payer().Name
	if old == name {
		return nil
	}
	if err := a.RenamePayer(name); err != nil {
		return err
	}

	credit := decimal.Zero
	for _, p := range a.Owed() {
		if !p.Paid {
			credit = credit.Add(p.Amount)
		}
	}
	l.touch(name)
	l.net[old] = l.net[old].Sub(credit)
	l.net[name] = l.net[name].Add(credit)
	l.prune(old)
	return nil
}

// EditParticipantName renames an owed participant. Renaming a name that is not
// in the record is a no-op.
func (l *Ledger) EditParticipantName(index int, oldName, newName string) error {
	a, err := l.record(index)
	if err != nil {
		return err
	}
	if err := l.validateText(newName); err != nil {
		return err
	}

	p, found := a.Participant(oldName)
	renamed, err := a.RenameParticipant(oldName, newName)
	if err != nil {
		return err
	}
	if !found || !renamed || oldName == newName {
		return nil
	}

	l.touch(newName)
	if !p.Paid {
		l.net[oldName] = l.net[oldName].Add(p.Amount)
		l.net[newName] = l.net[newName].Sub(p.Amount)
	}
	l.prune(oldName)
	return nil
}

// EditParticipantAmount changes what an unpaid participant owes. The difference
// is applied to both the participant's and the payer's net balance.
func (l *Ledger) EditParticipantAmount(index int, name string, amount decimal.Decimal) error {
	a, err := l.record(index)
	if err != nil {
		return err
	}
	if err := models.ValidateAmount(amount, l.maxAmount); err != nil {
		return err
	}

	old, err := a.SetAmount(name, amount)
	if err != nil {
		return fmt.Errorf("record %d: %w", index, err)
	}
	l.shift(a.Payer().Name, name, amount.Sub(old))
	return nil
}
