package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Participant is a named party within one Activity.
type Participant struct {
	// Name identifies the person. Names are case-sensitive and unique per Activity.
	Name string

	// Amount is what this participant owes the payer when they are an owed
	// participant. For the payer it is the payer's own signed figure: the
	// payer adjustment for explicit records, -(total - share) for equal splits.
	Amount decimal.Decimal

	// Paid reports whether this participant has settled their share.
	// Only meaningful for owed participants.
	Paid bool
}

// Share is one requested obligation: Name owes the payer Amount.
type Share struct {
	Name   string
	Amount decimal.Decimal
}

// Activity is one shared expense: a payer and the participants who owe them.
//
// Fields are unexported so every change goes through a method that keeps the
// record's invariants: the payer never owes themselves, owed names are unique,
// and owed amounts are positive.
type Activity struct {
	description string
	payer       Participant
	owed        []*Participant
}

// NewActivity builds an Activity with every owed participant unpaid.
// Amount bounds are a ledger policy and are checked there; NewActivity only
// requires that owed amounts are positive.
func NewActivity(description, payer string, payerAmount decimal.Decimal, owed []Share) (*Activity, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrMissingDescription
	}
	if strings.TrimSpace(payer) == "" {
		return nil, ErrMissingPayer
	}
	if len(owed) == 0 {
		return nil, ErrNoParticipants
	}

	a := &Activity{
		description: description,
		payer:       Participant{Name: payer, Amount: payerAmount},
		owed:        make([]*Participant, 0, len(owed)),
	}
	for _, s := range owed {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("%w: participant name is required", ErrFormat)
		}
		if s.Name == payer {
			return nil, fmt.Errorf("%w: %s", ErrSelfOwing, s.Name)
		}
		if a.find(s.Name) != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, s.Name)
		}
		if !s.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s.Amount)
		}
		a.owed = append(a.owed, &Participant{Name: s.Name, Amount: s.Amount})
	}
	return a, nil
}

func (a *Activity) find(name string) *Participant {
	for _, p := range a.owed {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Description returns the free-text description.
func (a *Activity) Description() string { return a.description }

// Payer returns a copy of the payer's entry.
func (a *Activity) Payer() Participant { return a.payer }

// Owed returns copies of the owed participants in insertion order.
func (a *Activity) Owed() []Participant {
	out := make([]Participant, len(a.owed))
	for i, p := range a.owed {
		out[i] = *p
	}
	return out
}

// Participant looks up an owed participant by name.
func (a *Activity) Participant(name string) (Participant, bool) {
	if p := a.find(name); p != nil {
		return *p, true
	}
	return Participant{}, false
}

// Involves reports whether name is the payer or an owed participant.
func (a *Activity) Involves(name string) bool {
	return a.payer.Name == name || a.find(name) != nil
}

// Total returns the sum of all owed amounts, paid or not.
func (a *Activity) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.owed {
		total = total.Add(p.Amount)
	}
	return total
}

// IsFullyPaid answers the paid question for one person or for the whole record.
// With all set, or when name is the payer, it is true iff every owed participant
// has paid. Otherwise it returns name's own flag (false when name is absent).
func (a *Activity) IsFullyPaid(name string, all bool) bool {
	if all || name == a.payer.Name {
		for _, p := range a.owed {
			if !p.Paid {
				return false
			}
		}
		return true
	}
	if p := a.find(name); p != nil {
		return p.Paid
	}
	return false
}

// Clone returns a deep copy.
func (a *Activity) Clone() *Activity {
	c := &Activity{
		description: a.description,
		payer:       a.payer,
		owed:        make([]*Participant, len(a.owed)),
	}
	for i, p := range a.owed {
		cp := *p
		c.owed[i] = &cp
	}
	return c
}

// SetDescription replaces the description.
func (a *Activity) SetDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrMissingDescription
	}
	a.description = description
	return nil
}

// RenamePayer changes the payer's display name.
func (a *Activity) RenamePayer(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingPayer
	}
	if a.find(name) != nil {
		return fmt.Errorf("%w: %s", ErrSelfOwing, name)
	}
	a.payer.Name = name
	return nil
}

// RenameParticipant rekeys an owed participant, keeping its position, amount and
// paid flag. It reports false without error when oldName is not an owed participant.
func (a *Activity) RenameParticipant(oldName, newName string) (bool, error) {
	if strings.TrimSpace(newName) == "" {
		return false, fmt.Errorf("%w: participant name is required", ErrFormat)
	}
	p := a.find(oldName)
	if p == nil {
		return false, nil
	}
	if newName == oldName {
		return true, nil
	}
	if newName == a.payer.Name {
		return false, fmt.Errorf("%w: %s", ErrSelfOwing, newName)
	}
	if a.find(newName) != nil {
		return false, fmt.Errorf("%w: %s", ErrDuplicateParticipant, newName)
	}
	p.Name = newName
	return true, nil
}

// SetAmount changes what an unpaid participant owes and returns the previous amount.
func (a *Activity) SetAmount(name string, amount decimal.Decimal) (decimal.Decimal, error) {
	p := a.find(name)
	if p == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrParticipantNotFound, name)
	}
	if p.Paid {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAmountSettled, name)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	old := p.Amount
	p.Amount = amount
	return old, nil
}

// SetPaid sets an owed participant's paid flag.
func (a *Activity) SetPaid(name string, paid bool) error {
	p := a.find(name)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, name)
	}
	p.Paid = paid
	return nil
}
