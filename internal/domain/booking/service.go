package booking

import (
	"context"
	"fmt"
	"time"

	"wisma/internal/core/id"
	"wisma/pkg/logger"
	"wisma/pkg/numerator"
)

// NumberSource allocates business IDs. Satisfied by *numerator.Service.
type NumberSource interface {
	Next(ctx context.Context, cfg numerator.Config, now time.Time) (string, error)
}

// Service provides booking creation and retrieval. Cancellation is owned by
// the cancellation package.
type Service struct {
	repo    Repository
	numbers NumberSource
}

// NewService creates a new booking service.
func NewService(repo Repository, numbers NumberSource) *Service {
	return &Service{repo: repo, numbers: numbers}
}

// Create validates the booking, assigns its business ID and persists it.
func (s *Service) Create(ctx context.Context, b *Booking) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if b.BusinessID == "" {
		cfg := numerator.DefaultConfig(b.Domain.BusinessIDPrefix())
		businessID, err := s.numbers.Next(ctx, cfg, time.Now())
		if err != nil {
			return fmt.Errorf("generate business id: %w", err)
		}
		b.BusinessID = businessID
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	logger.Info(ctx, "booking created",
		"id", b.ID, "business_id", b.BusinessID, "domain", b.Domain)
	return nil
}

// Get retrieves a booking by internal ID.
func (s *Service) Get(ctx context.Context, domain Domain, bookingID id.ID) (*Booking, error) {
	return s.repo.GetByID(ctx, domain, bookingID)
}
