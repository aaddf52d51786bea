package invoice

import (
	"context"

	"wisma/internal/core/id"

	"wisma/internal/domain"
)

// Repository defines persistence operations over the transactions collection.
type Repository interface {
	// Create inserts a transaction document (without lines).
	Create(ctx context.Context, t *Transaction) error

	// SaveLines replaces the line items of a transaction.
	SaveLines(ctx context.Context, txID id.ID, lines []Line) error

	// GetByID retrieves a transaction with its lines.
	GetByID(ctx context.Context, txID id.ID) (*Transaction, error)

	// ListByBooking returns all transactions whose discriminator matches
	// bookingType and whose booking relation equals bookingID.
	ListByBooking(ctx context.Context, bookingType BookingType, bookingID id.ID) ([]*Transaction, error)

	// ListPaid returns one page of paid transactions, ordered by ID.
	ListPaid(ctx context.Context, page domain.Page) ([]*Transaction, error)

	// Update rewrites a transaction document with optimistic locking.
	Update(ctx context.Context, t *Transaction) error

	// Delete removes a transaction and its lines outright.
	Delete(ctx context.Context, txID id.ID) error
}
