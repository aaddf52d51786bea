// Package cancellation orchestrates the cascade triggered by cancelling a
// booking: the status transition, the reversal of related transactions per
// the domain policy, and the removal of matched cashflow entries.
//
// The three mutations span independent collections with no cross-collection
// transaction underneath. The cascade is therefore built to be idempotent and
// resumable: re-running it against an already-cancelled booking reconciles
// whatever a previous run left behind and succeeds as a no-op otherwise.
package cancellation

import (
	"context"
	"fmt"
	"time"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"

	"wisma/internal/domain/booking"
	"wisma/internal/domain/cashflow"
	"wisma/internal/domain/invoice"
	"wisma/pkg/logger"
)

// DefaultCallTimeout bounds each individual persistence call.
const DefaultCallTimeout = 5 * time.Second

// Result reports what one cascade invocation did.
type Result struct {
	BookingID  id.ID  `json:"bookingId"`
	BusinessID string `json:"businessId"`

	// AlreadyCancelled is true when the booking was cancelled before this
	// call; the invocation then only reconciles leftovers.
	AlreadyCancelled bool `json:"alreadyCancelled"`

	// ReversedInvoices lists the invoice numbers reversed by this call.
	ReversedInvoices []string `json:"reversedInvoices"`

	// RemovedCashflowEntries counts ledger entries deleted by this call.
	RemovedCashflowEntries int `json:"removedCashflowEntries"`
}

// Service runs cancellation cascades. It holds no mutable state between
// calls beyond the per-booking locks.
type Service struct {
	resolver *booking.Resolver
	bookings booking.Repository
	invoices invoice.Repository
	cashflow cashflow.Repository

	policies    PolicyTable
	locks       *keyedMutex
	callTimeout time.Duration
}

// NewService creates a cancellation service. A nil policies table falls back
// to DefaultPolicies; a non-positive timeout falls back to DefaultCallTimeout.
func NewService(
	resolver *booking.Resolver,
	bookings booking.Repository,
	invoices invoice.Repository,
	cashflowRepo cashflow.Repository,
	policies PolicyTable,
	callTimeout time.Duration,
) *Service {
	if policies == nil {
		policies = DefaultPolicies()
	}
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Service{
		resolver:    resolver,
		bookings:    bookings,
		invoices:    invoices,
		cashflow:    cashflowRepo,
		policies:    policies,
		locks:       newKeyedMutex(),
		callTimeout: callTimeout,
	}
}

// Cancel runs the cascade for the booking identified by reference (business
// or internal ID) within one domain's collection.
//
// Resolution failures are fatal and side-effect free. A failure while
// reversing a transaction aborts the remaining iterations and surfaces as an
// internal error; transactions already reversed stay reversed, there is no
// rollback. Cashflow removal failures are logged and never propagated.
func (s *Service) Cancel(ctx context.Context, domain booking.Domain, reference string) (*Result, error) {
	b, err := s.resolve(ctx, domain, reference)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(b.ID)
	defer unlock()

	// Re-read under the lock: another cascade may have finished in between.
	b, err = s.getBooking(ctx, domain, b.ID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		BookingID:        b.ID,
		BusinessID:       b.BusinessID,
		AlreadyCancelled: b.IsCancelled(),
		ReversedInvoices: make([]string, 0),
	}

	if !b.IsCancelled() {
		if err := s.markCancelled(ctx, domain, b); err != nil {
			return nil, err
		}
	}

	if err := s.reverseTransactions(ctx, domain, b, result); err != nil {
		return nil, err
	}

	logger.Info(ctx, "cancellation cascade finished",
		"booking", b.BusinessID,
		"already_cancelled", result.AlreadyCancelled,
		"reversed_invoices", len(result.ReversedInvoices),
		"removed_cashflow", result.RemovedCashflowEntries,
	)
	return result, nil
}

func (s *Service) resolve(ctx context.Context, domain booking.Domain, reference string) (*booking.Booking, error) {
	opCtx, cancel := s.boundCall(ctx)
	defer cancel()

	b, err := s.resolver.Resolve(opCtx, domain, reference)
	if err != nil {
		if apperror.IsNotFound(err) || apperror.IsValidation(err) {
			return nil, err
		}
		if opCtx.Err() != nil {
			return nil, apperror.NewTimeout("resolve booking", err)
		}
		return nil, apperror.NewInternal(err)
	}
	return b, nil
}

func (s *Service) getBooking(ctx context.Context, domain booking.Domain, bookingID id.ID) (*booking.Booking, error) {
	opCtx, cancel := s.boundCall(ctx)
	defer cancel()

	b, err := s.bookings.GetByID(opCtx, domain, bookingID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.NewInternal(err)
	}
	return b, nil
}

// markCancelled writes the terminal status with an optimistic version check.
func (s *Service) markCancelled(ctx context.Context, domain booking.Domain, b *booking.Booking) error {
	opCtx, cancel := s.boundCall(ctx)
	defer cancel()

	err := s.bookings.UpdateStatus(opCtx, domain, b.ID, booking.StatusCancelled, b.Version)
	if err != nil {
		if apperror.IsConcurrentModification(err) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("set booking status: %w", err))
	}

	b.Status = booking.StatusCancelled
	return nil
}

// reverseTransactions applies the domain's reversal policy to every
// transaction still tied to the booking, then removes the matched cashflow
// entry for each.
func (s *Service) reverseTransactions(ctx context.Context, domain booking.Domain, b *booking.Booking, result *Result) error {
	opCtx, cancel := s.boundCall(ctx)
	transactions, err := s.invoices.ListByBooking(opCtx, invoice.BookingTypeFor(domain), b.ID)
	cancel()
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("list booking transactions: %w", err))
	}

	action := s.policies.For(domain)

	for _, t := range transactions {
		// A draft from an earlier run is already reconciled. The store query
		// normally excludes these (the discriminator changed), but the check
		// keeps reruns safe regardless of how the transaction was fetched.
		if t.BookingType == invoice.BookingTypeCancellation {
			continue
		}

		// Captured before the destructive step: the cashflow lookup needs
		// them after the transaction is gone or rewritten.
		invoiceID := t.ID
		invoiceNumber := t.Number

		if err := s.applyReversal(ctx, action, t, b.BusinessID); err != nil {
			return apperror.NewInternal(fmt.Errorf("reverse transaction %s: %w", invoiceNumber, err)).
				WithDetail("invoice", invoiceNumber).
				WithDetail("reversed_so_far", result.ReversedInvoices)
		}
		result.ReversedInvoices = append(result.ReversedInvoices, invoiceNumber)

		if s.removeMatchedCashflow(ctx, invoiceID, invoiceNumber) {
			result.RemovedCashflowEntries++
		}
	}

	return nil
}

func (s *Service) applyReversal(ctx context.Context, action ReversalAction, t *invoice.Transaction, bookingBusinessID string) error {
	opCtx, cancel := s.boundCall(ctx)
	defer cancel()

	switch action {
	case ReversalDelete:
		return s.invoices.Delete(opCtx, t.ID)
	default:
		t.ConvertToCancellationDraft(bookingBusinessID)
		if err := s.invoices.Update(opCtx, t); err != nil {
			return err
		}
		return s.invoices.SaveLines(opCtx, t.ID, t.Lines)
	}
}

// removeMatchedCashflow reverses recognized revenue for one invoice. Failures
// here are logged and swallowed: the cascade's success is defined by the
// booking-status and transaction-reversal steps alone.
func (s *Service) removeMatchedCashflow(ctx context.Context, invoiceID id.ID, invoiceNumber string) bool {
	opCtx, cancel := s.boundCall(ctx)
	defer cancel()

	entry, err := s.cashflow.GetByInvoiceID(opCtx, invoiceID)
	if apperror.IsNotFound(err) {
		// Legacy rows carry no reference; fall back to the text match.
		entry, err = s.cashflow.FindByInvoiceNumber(opCtx, invoiceNumber)
	}
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Debug(ctx, "no cashflow entry matched invoice", "invoice", invoiceNumber)
		} else {
			logger.Warn(ctx, "cashflow lookup failed, skipping",
				"invoice", invoiceNumber, "error", err)
		}
		return false
	}

	if err := s.cashflow.Delete(opCtx, entry.ID); err != nil {
		logger.Warn(ctx, "cashflow entry removal failed, skipping",
			"invoice", invoiceNumber, "entry", entry.ID, "error", err)
		return false
	}
	return true
}

func (s *Service) boundCall(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}
