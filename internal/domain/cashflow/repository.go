package cashflow

import (
	"context"

	"wisma/internal/core/id"

	"wisma/internal/domain"
)

// Repository defines persistence operations over the cashflow collection.
type Repository interface {
	// Create inserts a ledger entry.
	Create(ctx context.Context, e *Entry) error

	// GetByInvoiceID finds the entry explicitly referencing an invoice.
	// This is the primary linkage path.
	GetByInvoiceID(ctx context.Context, invoiceID id.ID) (*Entry, error)

	// FindByInvoiceNumber finds an entry whose description contains the
	// invoice number as a substring. Best-effort fallback for legacy rows;
	// a false match is possible and callers must tolerate it.
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Entry, error)

	// ListApprovedOut returns one page of approved outgoing entries,
	// ordered by ID.
	ListApprovedOut(ctx context.Context, page domain.Page) ([]*Entry, error)

	// Delete removes an entry outright.
	Delete(ctx context.Context, entryID id.ID) error
}
