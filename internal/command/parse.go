package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// AddRequest is a parsed add command.
type AddRequest struct {
	Description     string
	Payer           string
	PayerAdjustment decimal.Decimal
	Owed            []models.Share
}

// SplitRequest is a parsed split command.
type SplitRequest struct {
	Description string
	Payer       string
	Total       decimal.Decimal
	Names       []string
}

// EditKind selects which part of a record an edit changes.
type EditKind int

const (
	EditDescription EditKind = iota + 1
	EditPayer
	EditParticipantName
	EditParticipantAmount
)

// EditRequest is a parsed edit command. Only the fields its Kind needs are set.
type EditRequest struct {
	Kind        EditKind
	Index       int
	Description string
	Payer       string
	Name        string
	NewName     string
	Amount      decimal.Decimal
}

// IndexRequest is a parsed delete command.
type IndexRequest struct {
	Index int
}

// PaymentRequest is a parsed paid or unpaid command.
type PaymentRequest struct {
	Name    string
	Ordinal int
}

// NameRequest is a parsed list or balance command. Name may be empty for list.
type NameRequest struct {
	Name string
}

// ParseAdd builds an AddRequest. Every n/ must be followed by its a/ before
// the next n/.
func ParseAdd(in Input, max decimal.Decimal) (AddRequest, error) {
	if err := in.only(PrefixDescription, PrefixPayer, PrefixName, PrefixAmount, PrefixAdjustment); err != nil {
		return AddRequest{}, err
	}
	var req AddRequest
	var err error
	if req.Description, err = in.required(PrefixDescription, "description"); err != nil {
		return AddRequest{}, err
	}
	if req.Payer, err = in.required(PrefixPayer, "payer"); err != nil {
		return AddRequest{}, err
	}

	pending := ""
	for _, f := range in.Fields {
		switch f.Prefix {
		case PrefixName:
			if pending != "" {
				return AddRequest{}, fmt.Errorf("%w: no amount for %s", models.ErrFormat, pending)
			}
			if strings.TrimSpace(f.Value) == "" {
				return AddRequest{}, fmt.Errorf("%w: empty participant name", models.ErrFormat)
			}
			pending = f.Value
		case PrefixAmount:
			if pending == "" {
				return AddRequest{}, fmt.Errorf("%w: amount %q has no participant", models.ErrFormat, f.Value)
			}
			amount, err := models.ParseAmount(f.Value, max)
			if err != nil {
				return AddRequest{}, fmt.Errorf("%s: %w", pending, err)
			}
			req.Owed = append(req.Owed, models.Share{Name: pending, Amount: amount})
			pending = ""
		}
	}
	if pending != "" {
		return AddRequest{}, fmt.Errorf("%w: no amount for %s", models.ErrFormat, pending)
	}
	if len(req.Owed) == 0 {
		return AddRequest{}, models.ErrNoParticipants
	}

	adj, ok, err := in.optional(PrefixAdjustment)
	if err != nil {
		return AddRequest{}, err
	}
	if ok {
		if req.PayerAdjustment, err = parseDecimal(adj); err != nil {
			return AddRequest{}, err
		}
	}
	return req, nil
}

// ParseSplit builds a SplitRequest.
func ParseSplit(in Input, max decimal.Decimal) (SplitRequest, error) {
	if err := in.only(PrefixDescription, PrefixPayer, PrefixTotal, PrefixName); err != nil {
		return SplitRequest{}, err
	}
	var req SplitRequest
	var err error
	if req.Description, err = in.required(PrefixDescription, "description"); err != nil {
		return SplitRequest{}, err
	}
	if req.Payer, err = in.required(PrefixPayer, "payer"); err != nil {
		return SplitRequest{}, err
	}
	total, err := in.required(PrefixTotal, "total")
	if err != nil {
		return SplitRequest{}, err
	}
	if req.Total, err = models.ParseAmount(total, max); err != nil {
		return SplitRequest{}, err
	}
	for _, name := range in.all(PrefixName) {
		if strings.TrimSpace(name) == "" {
			return SplitRequest{}, fmt.Errorf("%w: empty participant name", models.ErrFormat)
		}
		req.Names = append(req.Names, name)
	}
	if len(req.Names) == 0 {
		return SplitRequest{}, models.ErrNoParticipants
	}
	return req, nil
}

// ParseEdit builds an EditRequest from one of
//
//	i/INDEX d/DESC
//	i/INDEX p/NEWPAYER
//	i/INDEX n/OLD r/NEW
//	i/INDEX n/NAME a/AMOUNT
func ParseEdit(in Input, max decimal.Decimal) (EditRequest, error) {
	var kind EditKind
	var fields []string
	switch {
	case in.has(PrefixDescription):
		kind, fields = EditDescription, []string{PrefixDescription}
	case in.has(PrefixPayer):
		kind, fields = EditPayer, []string{PrefixPayer}
	case in.has(PrefixName) && in.has(PrefixRename):
		kind, fields = EditParticipantName, []string{PrefixName, PrefixRename}
	case in.has(PrefixName) && in.has(PrefixAmount):
		kind, fields = EditParticipantAmount, []string{PrefixName, PrefixAmount}
	default:
		return EditRequest{}, errEditUsage
	}
	if err := in.only(append(fields, PrefixIndex)...); err != nil {
		return EditRequest{}, fmt.Errorf("%w (%v)", errEditUsage, err)
	}

	index, err := parseIndex(in, "index")
	if err != nil {
		return EditRequest{}, err
	}
	req := EditRequest{Kind: kind, Index: index}

	switch kind {
	case EditDescription:
		req.Description, err = in.required(PrefixDescription, "description")
	case EditPayer:
		req.Payer, err = in.required(PrefixPayer, "payer")
	case EditParticipantName:
		if req.Name, err = in.required(PrefixName, "name"); err == nil {
			req.NewName, err = in.required(PrefixRename, "new name")
		}
	case EditParticipantAmount:
		var amount string
		if req.Name, err = in.required(PrefixName, "name"); err == nil {
			if amount, err = in.required(PrefixAmount, "amount"); err == nil {
				req.Amount, err = models.ParseAmount(amount, max)
			}
		}
	}
	if err != nil {
		return EditRequest{}, err
	}
	return req, nil
}

var errEditUsage = fmt.Errorf("%w: edit takes i/ with one of d/, p/, n/ r/, or n/ a/", models.ErrFormat)

// ParseDelete builds an IndexRequest.
func ParseDelete(in Input) (IndexRequest, error) {
	if err := in.only(PrefixIndex); err != nil {
		return IndexRequest{}, err
	}
	index, err := parseIndex(in, "index")
	if err != nil {
		return IndexRequest{}, err
	}
	return IndexRequest{Index: index}, nil
}

// ParsePayment builds a PaymentRequest for paid and unpaid.
func ParsePayment(in Input) (PaymentRequest, error) {
	if err := in.only(PrefixName, PrefixIndex); err != nil {
		return PaymentRequest{}, err
	}
	name, err := in.required(PrefixName, "name")
	if err != nil {
		return PaymentRequest{}, err
	}
	ordinal, err := parseIndex(in, "ordinal")
	if err != nil {
		return PaymentRequest{}, err
	}
	return PaymentRequest{Name: name, Ordinal: ordinal}, nil
}

// ParseName builds a NameRequest. The name is required unless optional is set.
func ParseName(in Input, optional bool) (NameRequest, error) {
	if err := in.only(PrefixName); err != nil {
		return NameRequest{}, err
	}
	if optional && !in.has(PrefixName) {
		return NameRequest{}, nil
	}
	name, err := in.required(PrefixName, "name")
	if err != nil {
		return NameRequest{}, err
	}
	return NameRequest{Name: name}, nil
}

func parseIndex(in Input, what string) (int, error) {
	s, err := in.required(PrefixIndex, what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", models.ErrFormat, what, s)
	}
	return n, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cannot parse amount %q", models.ErrFormat, s)
	}
	return d, nil
}
