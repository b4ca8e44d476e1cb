package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
)

// Service is the set of ledger operations the console drives.
// *service.LedgerService implements it.
type Service interface {
	MaxAmount() decimal.Decimal
	AddExpense(ctx context.Context, description, payer string, payerAdjustment decimal.Decimal, owed []models.Share) (*models.Activity, error)
	AddEqualSplit(ctx context.Context, description, payer string, total decimal.Decimal, names []string) (*models.Activity, error)
	EditDescription(ctx context.Context, index int, description string) error
	EditPayerName(ctx context.Context, index int, name string) error
	EditParticipantName(ctx context.Context, index int, oldName, newName string) error
	EditParticipantAmount(ctx context.Context, index int, name string, amount decimal.Decimal) error
	DeleteExpense(ctx context.Context, index int) error
	MarkPaid(ctx context.Context, name string, ordinal int) error
	MarkUnpaid(ctx context.Context, name string, ordinal int) error
	ListAll() []*models.Activity
	ListFor(name string) (paid, unpaid []*models.Activity)
	NetBalanceOf(name string) (decimal.Decimal, error)
	Settle() []models.Settlement
}

type handler func(ctx context.Context, in Input) (string, error)

// Dispatcher routes console lines to Service calls.
type Dispatcher struct {
	svc       Service
	intercept middleware.Interceptor
	handlers  map[string]handler
}

// NewDispatcher creates a Dispatcher. Every command runs through the
// interceptors, first one outermost.
func NewDispatcher(svc Service, interceptors ...middleware.Interceptor) *Dispatcher {
	d := &Dispatcher{
		svc:       svc,
		intercept: middleware.Chain(interceptors...),
	}
	d.handlers = map[string]handler{
		"add":     d.add,
		"split":   d.split,
		"edit":    d.edit,
		"delete":  d.delete,
		"paid":    d.paid,
		"unpaid":  d.unpaid,
		"list":    d.list,
		"balance": d.balance,
		"settle":  d.settle,
		"help":    d.help,
	}
	return d
}

// Execute runs one input line. exit reports that the user asked to quit.
// A blank line does nothing.
func (d *Dispatcher) Execute(ctx context.Context, line string) (output string, exit bool, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return "", false, nil
	}
	name := strings.ToLower(words[0])

	run := d.intercept(name, func(ctx context.Context) (string, error) {
		in, err := Tokenize(line)
		if err != nil {
			return "", err
		}
		if in.Command == "exit" {
			if err := in.only(); err != nil {
				return "", err
			}
			exit = true
			return "Bye!", nil
		}
		h, ok := d.handlers[in.Command]
		if !ok {
			return "", fmt.Errorf("%w: unknown command %q, try help", models.ErrFormat, in.Command)
		}
		return h(ctx, in)
	})

	output, err = run(ctx)
	if err != nil {
		exit = false
	}
	return output, exit, err
}

func (d *Dispatcher) add(ctx context.Context, in Input) (string, error) {
	req, err := ParseAdd(in, d.svc.MaxAmount())
	if err != nil {
		return "", err
	}
	a, err := d.svc.AddExpense(ctx, req.Description, req.Payer, req.PayerAdjustment, req.Owed)
	if a == nil {
		return "", err
	}
	return "Added:\n" + FormatActivity(len(d.svc.ListAll()), a), err
}

func (d *Dispatcher) split(ctx context.Context, in Input) (string, error) {
	req, err := ParseSplit(in, d.svc.MaxAmount())
	if err != nil {
		return "", err
	}
	a, err := d.svc.AddEqualSplit(ctx, req.Description, req.Payer, req.Total, req.Names)
	if a == nil {
		return "", err
	}
	return "Added:\n" + FormatActivity(len(d.svc.ListAll()), a), err
}

func (d *Dispatcher) edit(ctx context.Context, in Input) (string, error) {
	req, err := ParseEdit(in, d.svc.MaxAmount())
	if err != nil {
		return "", err
	}
	switch req.Kind {
	case EditDescription:
		err = d.svc.EditDescription(ctx, req.Index, req.Description)
	case EditPayer:
		err = d.svc.EditPayerName(ctx, req.Index, req.Payer)
	case EditParticipantName:
		err = d.svc.EditParticipantName(ctx, req.Index, req.Name, req.NewName)
	case EditParticipantAmount:
		err = d.svc.EditParticipantAmount(ctx, req.Index, req.Name, req.Amount)
	}
	if err != nil {
		return "", err
	}
	return d.show(req.Index, "Updated:"), nil
}

func (d *Dispatcher) delete(ctx context.Context, in Input) (string, error) {
	req, err := ParseDelete(in)
	if err != nil {
		return "", err
	}
	all := d.svc.ListAll()
	if err := d.svc.DeleteExpense(ctx, req.Index); err != nil {
		return "", err
	}
	return "Deleted:\n" + FormatActivity(req.Index, all[req.Index-1]), nil
}

func (d *Dispatcher) paid(ctx context.Context, in Input) (string, error) {
	req, err := ParsePayment(in)
	if err != nil {
		return "", err
	}
	_, unpaid := d.svc.ListFor(req.Name)
	if err := d.svc.MarkPaid(ctx, req.Name, req.Ordinal); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked %s as paid on %q.", req.Name, unpaid[req.Ordinal-1].Description()), nil
}

func (d *Dispatcher) unpaid(ctx context.Context, in Input) (string, error) {
	req, err := ParsePayment(in)
	if err != nil {
		return "", err
	}
	paid, _ := d.svc.ListFor(req.Name)
	if err := d.svc.MarkUnpaid(ctx, req.Name, req.Ordinal); err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked %s as unpaid on %q.", req.Name, paid[req.Ordinal-1].Description()), nil
}

func (d *Dispatcher) list(ctx context.Context, in Input) (string, error) {
	req, err := ParseName(in, true)
	if err != nil {
		return "", err
	}
	if req.Name == "" {
		return FormatActivities(d.svc.ListAll(), "No expenses recorded."), nil
	}

	paid, unpaid := d.svc.ListFor(req.Name)
	return fmt.Sprintf("Unpaid for %s:\n%s\nPaid for %s:\n%s",
		req.Name, FormatActivities(unpaid, "(none)"),
		req.Name, FormatActivities(paid, "(none)"),
	), nil
}

func (d *Dispatcher) balance(ctx context.Context, in Input) (string, error) {
	req, err := ParseName(in, false)
	if err != nil {
		return "", err
	}
	bal, err := d.svc.NetBalanceOf(req.Name)
	if err != nil {
		return "", err
	}
	return FormatBalance(req.Name, bal), nil
}

func (d *Dispatcher) settle(ctx context.Context, in Input) (string, error) {
	if err := in.only(); err != nil {
		return "", err
	}
	return FormatSettlements(d.svc.Settle()), nil
}

func (d *Dispatcher) help(ctx context.Context, in Input) (string, error) {
	return helpText, nil
}

// show renders record index after a successful change.
func (d *Dispatcher) show(index int, heading string) string {
	all := d.svc.ListAll()
	if index < 1 || index > len(all) {
		return heading
	}
	return heading + "\n" + FormatActivity(index, all[index-1])
}
