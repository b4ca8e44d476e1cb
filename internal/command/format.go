package command

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// FormatActivity renders one record under its number.
func FormatActivity(n int, a *models.Activity) string {
	var b strings.Builder
	payer := a.Payer()
	fmt.Fprintf(&b, "%d. %s, paid by %s (total %s)", n, a.Description(), payer.Name, a.Total().StringFixed(2))
	if !payer.Amount.IsZero() {
		fmt.Fprintf(&b, " [payer %s]", payer.Amount.StringFixed(2))
	}
	for _, p := range a.Owed() {
		fmt.Fprintf(&b, "\n   %s owes %s", p.Name, p.Amount.StringFixed(2))
		if p.Paid {
			b.WriteString(" (paid)")
		}
	}
	return b.String()
}

// FormatActivities renders records numbered from 1.
func FormatActivities(activities []*models.Activity, empty string) string {
	if len(activities) == 0 {
		return empty
	}
	lines := make([]string, len(activities))
	for i, a := range activities {
		lines[i] = FormatActivity(i+1, a)
	}
	return strings.Join(lines, "\n")
}

// FormatBalance describes a net balance in words.
func FormatBalance(name string, bal decimal.Decimal) string {
	switch {
	case bal.IsPositive():
		return fmt.Sprintf("%s is owed %s", name, bal.StringFixed(2))
	case bal.IsNegative():
		return fmt.Sprintf("%s owes %s", name, bal.Neg().StringFixed(2))
	default:
		return fmt.Sprintf("%s is settled up", name)
	}
}

// FormatSettlements renders one payment per line.
func FormatSettlements(txs []models.Settlement) string {
	if len(txs) == 0 {
		return "Everyone is settled up."
	}
	lines := make([]string, len(txs))
	for i, tx := range txs {
		lines[i] = tx.String()
	}
	return strings.Join(lines, "\n")
}

const helpText = `Commands:
  add d/DESC p/PAYER n/NAME a/AMOUNT [n/NAME a/AMOUNT ...] [s/PAYER_ADJUSTMENT]
  split d/DESC p/PAYER t/TOTAL n/NAME [n/NAME ...]
  edit i/INDEX d/DESC
  edit i/INDEX p/NEW_PAYER
  edit i/INDEX n/OLD_NAME r/NEW_NAME
  edit i/INDEX n/NAME a/AMOUNT
  delete i/INDEX
  paid n/NAME i/ORDINAL      (ORDINAL counts NAME's unpaid expenses)
  unpaid n/NAME i/ORDINAL    (ORDINAL counts NAME's paid expenses)
  list [n/NAME]
  balance n/NAME
  settle
  help
  exit`
