package invoice

import (
	"context"
	"fmt"
	"time"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
	"wisma/internal/core/tx"
	"wisma/internal/core/types"

	"wisma/internal/domain/booking"
	"wisma/internal/domain/pricing"
	"wisma/pkg/logger"
	"wisma/pkg/numerator"
)

// NumberSource allocates invoice numbers. Satisfied by *numerator.Service.
type NumberSource interface {
	Next(ctx context.Context, cfg numerator.Config, now time.Time) (string, error)
}

// Service provides invoice creation and retrieval.
type Service struct {
	repo      Repository
	numbers   NumberSource
	tariff    pricing.Tariff
	txManager tx.Manager
}

// NewService creates a new invoice service.
func NewService(repo Repository, numbers NumberSource, tariff pricing.Tariff, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numbers:   numbers,
		tariff:    tariff,
		txManager: txManager,
	}
}

// Create numbers, validates and persists a transaction with its lines.
func (s *Service) Create(ctx context.Context, t *Transaction) error {
	if t.Number == "" {
		cfg := numerator.DefaultConfig("INV")
		cfg.IncludeYear = true
		number, err := s.numbers.Next(ctx, cfg, time.Now())
		if err != nil {
			return fmt.Errorf("generate invoice number: %w", err)
		}
		t.Number = number
	}

	if err := t.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := s.repo.SaveLines(ctx, t.ID, t.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice created", "id", t.ID, "number", t.Number)
	return nil
}

// CreateForHallBooking prices an auditorium booking and persists the invoice
// with one line per charge component: the package, extra hours if any, and
// the after-hours surcharge if any.
func (s *Service) CreateForHallBooking(ctx context.Context, b *booking.Booking, currency types.Currency) (*Transaction, error) {
	if b.Domain != booking.DomainAuditorium {
		return nil, apperror.NewValidation("hall invoices only apply to auditorium bookings").
			WithDetail("domain", string(b.Domain))
	}

	quote := s.tariff.Quote(b.StartTime, b.EndTime)
	if quote.DurationHours == 0 {
		return nil, apperror.NewValidation("booking has no billable duration").
			WithDetail("businessId", b.BusinessID)
	}

	t := NewTransaction(BookingTypeAuditorium, b.ID, currency)
	t.AddLine(fmt.Sprintf("Hall package %s", quote.Pricing.Tier.Name), 1, quote.Pricing.BasePrice)
	if quote.Pricing.ExtraHours > 0 {
		t.AddLine("Extra hours", quote.Pricing.ExtraHours, s.tariff.ExtraHourRate)
	}
	if quote.AfterHours > 0 {
		t.AddLine("After-hours surcharge", quote.AfterHours, s.tariff.AfterHoursRate)
	}
	t.Notes = fmt.Sprintf("Hall rental for booking %s", b.BusinessID)

	if err := s.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get retrieves a transaction with lines.
func (s *Service) Get(ctx context.Context, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}
