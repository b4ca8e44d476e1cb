package ledger

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// MarkPaid settles name's obligation on the ordinal-th record (1-based) among
// the records that are still unpaid for name.
//
// When name is the payer of that record, every unpaid participant is marked
// paid. Each settled obligation is removed from both the participant's and the
// payer's net balance.
func (l *Ledger) MarkPaid(name string, ordinal int) error {
	a, err := l.nth(name, false, ordinal)
	if err != nil {
		return err
	}
	return l.setPaid(a, name, true)
}

// MarkUnpaid reverses MarkPaid on the ordinal-th record (1-based) among the
// records that are paid for name. For the payer, every paid participant is
// reopened.
func (l *Ledger) MarkUnpaid(name string, ordinal int) error {
	a, err := l.nth(name, true, ordinal)
	if err != nil {
		return err
	}
	return l.setPaid(a, name, false)
}

func (l *Ledger) nth(name string, paid bool, ordinal int) (*models.Activity, error) {
	matches := l.involving(name, paid)
	if len(matches) == 0 && !l.mentions(name) {
		return nil, fmt.Errorf("%w: %s", models.ErrParticipantNotFound, name)
	}
	if ordinal < 1 || ordinal > len(matches) {
		state := "unpaid"
		if paid {
			state = "paid"
		}
		return nil, fmt.Errorf("%w: %s has %d %s record(s), asked for #%d",
			models.ErrIndexOutOfRange, name, len(matches), state, ordinal)
	}
	return matches[ordinal-1], nil
}

func (l *Ledger) mentions(name string) bool {
	_, ok := l.net[name]
	return ok
}

// setPaid moves name (or, for the payer, every owed participant) to the target
// state. Validation happens before any flag or balance changes.
func (l *Ledger) setPaid(a *models.Activity, name string, paid bool) error {
	already := models.ErrAlreadyUnpaid
	if paid {
		already = models.ErrAlreadyPaid
	}

	payer := a.Payer().Name
	var targets []models.Participant
	if name == payer {
		for _, p := range a.Owed() {
			if p.Paid != paid {
				targets = append(targets, p)
			}
		}
		if len(targets) == 0 {
			return fmt.Errorf("%w: everyone on %q", already, a.Description())
		}
	} else {
		p, ok := a.Participant(name)
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrParticipantNotFound, name)
		}
		if p.Paid == paid {
			return fmt.Errorf("%w: %s on %q", already, name, a.Description())
		}
		targets = append(targets, p)
	}

	for _, p := range targets {
		if err := a.SetPaid(p.Name, paid); err != nil {
			return err
		}
		if paid {
			l.shift(payer, p.Name, p.Amount.Neg())
		} else {
			l.shift(payer, p.Name, p.Amount)
		}
	}
	return nil
}
