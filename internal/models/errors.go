package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger core wraps exactly one of these,
// so callers can classify failures with errors.Is.
var (
	// ErrFormat covers missing fields, unparseable amounts and malformed records.
	ErrFormat = errors.New("format error")

	// ErrValidation covers well-formed requests that break a record invariant.
	ErrValidation = errors.New("validation error")

	// ErrState covers requests that conflict with the current ledger state.
	ErrState = errors.New("state error")

	// ErrIO covers persistence read/write failures.
	ErrIO = errors.New("io error")
)

var (
	ErrMissingDescription = fmt.Errorf("%w: description is required", ErrFormat)
	ErrMissingPayer       = fmt.Errorf("%w: payer is required", ErrFormat)
	ErrNoParticipants     = fmt.Errorf("%w: at least one participant is required", ErrFormat)
	ErrMalformedRecord    = fmt.Errorf("%w: malformed record", ErrFormat)
	ErrDelimiterInText    = fmt.Errorf("%w: text contains the field delimiter", ErrFormat)

	ErrSelfOwing            = fmt.Errorf("%w: payer cannot owe themselves", ErrValidation)
	ErrDuplicateParticipant = fmt.Errorf("%w: duplicate participant", ErrValidation)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be positive with at most 2 decimal places", ErrValidation)
	ErrAmountTooLarge       = fmt.Errorf("%w: amount exceeds the allowed maximum", ErrValidation)

	ErrAlreadyPaid         = fmt.Errorf("%w: already paid", ErrState)
	ErrAlreadyUnpaid       = fmt.Errorf("%w: already unpaid", ErrState)
	ErrAmountSettled       = fmt.Errorf("%w: amount cannot change after it is paid", ErrState)
	ErrIndexOutOfRange     = fmt.Errorf("%w: index out of range", ErrState)
	ErrParticipantNotFound = fmt.Errorf("%w: participant not found", ErrState)
)

// Kind returns a short label for the kind of err, suitable for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrState):
		return "state"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}
