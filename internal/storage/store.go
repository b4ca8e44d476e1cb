// Package storage provides abstractions for persisting ledger records.
package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the interface for record persistence.
// This abstraction allows swapping storage backends (flat file, SQLite)
// without changing the service layer.
type Store interface {
	// Load reads every persisted record in order. Records that cannot be
	// decoded are reported in LoadResult.Errors and skipped; the returned
	// error is reserved for failures of the store as a whole.
	Load(ctx context.Context) (*LoadResult, error)

	// Save replaces the persisted records with activities, in order.
	Save(ctx context.Context, activities []*models.Activity) error

	// Close releases any resources held by the store.
	Close() error
}

// LoadResult is the outcome of Store.Load.
type LoadResult struct {
	Activities []*models.Activity

	// Lines holds the source line (or row position) of each entry in
	// Activities.
	Lines []int

	Errors []LineError
}

// Add appends a decoded activity read from line.
func (r *LoadResult) Add(a *models.Activity, line int) {
	r.Activities = append(r.Activities, a)
	r.Lines = append(r.Lines, line)
}

// Line returns the source line of Activities[i], falling back to i+1 when the
// store did not record one.
func (r *LoadResult) Line(i int) int {
	if i < len(r.Lines) {
		return r.Lines[i]
	}
	return i + 1
}

// LineError reports one record that could not be loaded.
type LineError struct {
	// Line is the 1-based line number (or row position) of the bad record.
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// IOError wraps err as a models.ErrIO failure with a short description of the
// operation that failed.
func IOError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrIO, op, err)
}
