package booking

import (
	"context"

	"wisma/internal/core/id"
)

// Repository defines persistence operations over the per-domain booking
// collections. Every read and write is scoped to one domain's collection.
type Repository interface {
	// Create inserts a new booking into its domain's collection.
	Create(ctx context.Context, b *Booking) error

	// GetByID retrieves a booking by internal ID.
	GetByID(ctx context.Context, domain Domain, bookingID id.ID) (*Booking, error)

	// GetByBusinessID retrieves a booking by its human-readable identifier.
	GetByBusinessID(ctx context.Context, domain Domain, businessID string) (*Booking, error)

	// UpdateStatus writes a new status if the record still carries
	// expectedVersion; otherwise it fails with CONCURRENT_MODIFICATION.
	UpdateStatus(ctx context.Context, domain Domain, bookingID id.ID, status Status, expectedVersion int) error
}
