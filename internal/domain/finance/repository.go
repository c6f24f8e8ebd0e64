package finance

import (
	"context"
)

type FinanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID returns ErrFinanceRecordNotFound when no record matches.
	GetByID(ctx context.Context, id string) (Record, error)

	// List returns records matching the filter, newest date first.
	List(ctx context.Context, filter ListFilter) ([]Record, error)

	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, record Record) (Record, error)

	// Delete returns ErrFinanceRecordNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error

	// Totals sums income and expenses over the whole ledger.
	Totals(ctx context.Context) (Totals, error)
}
