package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDelimiter is the ASCII unit separator, which does not occur in typed text.
const DefaultDelimiter byte = 0x1f

// Field layout of an encoded Activity: four header fields followed by one
// name/amount/paid triple per owed participant.
const (
	headerFields      = 4
	participantFields = 3
)

// Fields flattens the activity into its persisted field sequence:
// description, payer name, payer amount, payer paid, then name, amount, paid
// for every owed participant.
func (a *Activity) Fields() []string {
	fields := make([]string, 0, headerFields+participantFields*len(a.owed))
	fields = append(fields,
		a.description,
		a.payer.Name,
		a.payer.Amount.StringFixed(2),
		strconv.FormatBool(a.payer.Paid),
	)
	for _, p := range a.owed {
		fields = append(fields, p.Name, p.Amount.StringFixed(2), strconv.FormatBool(p.Paid))
	}
	return fields
}

// Encode joins Fields with delim. It fails when any text field contains delim,
// since the line could not be decoded again.
func (a *Activity) Encode(delim byte) (string, error) {
	fields := a.Fields()
	for _, f := range fields {
		if err := ValidateText(f, delim); err != nil {
			return "", err
		}
	}
	return strings.Join(fields, string(delim)), nil
}

// ParseFields rebuilds an Activity from its field sequence, paid flags included.
func ParseFields(fields []string) (*Activity, error) {
	if len(fields) < headerFields+participantFields || (len(fields)-headerFields)%participantFields != 0 {
		return nil, fmt.Errorf("%w: unexpected field count %d", ErrMalformedRecord, len(fields))
	}

	payerAmount, err := decimal.NewFromString(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: payer amount %q", ErrMalformedRecord, fields[2])
	}
	if !hasCents(payerAmount) {
		return nil, fmt.Errorf("%w: payer amount %q", ErrInvalidAmount, fields[2])
	}
	payerPaid, err := strconv.ParseBool(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: payer paid flag %q", ErrMalformedRecord, fields[3])
	}

	n := (len(fields) - headerFields) / participantFields
	shares := make([]Share, n)
	paid := make([]bool, n)
	for i := 0; i < n; i++ {
		off := headerFields + i*participantFields
		amount, err := decimal.NewFromString(fields[off+1])
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q", ErrMalformedRecord, fields[off+1])
		}
		if !hasCents(amount) {
			return nil, fmt.Errorf("%w: amount %q", ErrInvalidAmount, fields[off+1])
		}
		flag, err := strconv.ParseBool(fields[off+2])
		if err != nil {
			return nil, fmt.Errorf("%w: paid flag %q", ErrMalformedRecord, fields[off+2])
		}
		shares[i] = Share{Name: fields[off], Amount: amount}
		paid[i] = flag
	}

	a, err := NewActivity(fields[0], fields[1], payerAmount, shares)
	if err != nil {
		return nil, err
	}
	a.payer.Paid = payerPaid
	for i, p := range a.owed {
		p.Paid = paid[i]
	}
	return a, nil
}

// hasCents reports whether d has at most two decimal places. The amount
// ceiling is not checked here so a lowered limit never drops saved records.
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// DecodeActivity parses one line produced by Encode.
func DecodeActivity(line string, delim byte) (*Activity, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedRecord)
	}
	return ParseFields(strings.Split(line, string(delim)))
}
