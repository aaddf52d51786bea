// Package invoice provides the Transaction document: the billable record tied
// to exactly one booking, carrying amount, currency, payment status and line
// items. The relation to the booking is non-owning; the booking outlives the
// transaction and is never deleted with it.
package invoice

import (
	"context"
	"fmt"
	"time"

	"wisma/internal/core/apperror"
	"wisma/internal/core/entity"
	"wisma/internal/core/id"
	"wisma/internal/core/types"

	"wisma/internal/domain/booking"
)

// BookingType discriminates what a transaction bills for.
type BookingType string

const (
	BookingTypeHotel        BookingType = "hotel"
	BookingTypeAuditorium   BookingType = "auditorium"
	BookingTypeRental       BookingType = "rental"
	BookingTypeCancellation BookingType = "cancellation"
)

// BookingTypeFor maps a booking domain to the transaction discriminator.
func BookingTypeFor(d booking.Domain) BookingType {
	if d == booking.DomainAuditorium {
		return BookingTypeAuditorium
	}
	return BookingTypeHotel
}

// PaymentStatus is the settlement state of a transaction.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Transaction is an invoice document.
type Transaction struct {
	entity.BaseRecord

	// Number is the unique human-facing invoice number ("INV-2026-0007").
	Number string `db:"number" json:"number"`

	BookingType BookingType `db:"booking_type" json:"bookingType"`

	// BookingID references the billed booking (non-owning).
	BookingID id.ID `db:"booking_id" json:"bookingId"`

	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`
	Currency      types.Currency `db:"currency" json:"currency"`
	PaymentStatus PaymentStatus  `db:"payment_status" json:"paymentStatus"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// Table part: billed items.
	Lines []Line `db:"-" json:"lines"`
}

// Line is one billed item.
type Line struct {
	LineID   id.ID       `db:"line_id" json:"lineId"`
	LineNo   int         `db:"line_no" json:"lineNo"`
	Name     string      `db:"name" json:"name"`
	Quantity int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
}

// NewTransaction creates a pending transaction for a booking.
func NewTransaction(bookingType BookingType, bookingID id.ID, currency types.Currency) *Transaction {
	return &Transaction{
		BaseRecord:    entity.NewBaseRecord(),
		BookingType:   bookingType,
		BookingID:     bookingID,
		TotalAmount:   types.Zero(),
		Currency:      currency,
		PaymentStatus: PaymentPending,
		Lines:         make([]Line, 0),
	}
}

// AddLine appends a billed item and recalculates the total.
func (t *Transaction) AddLine(name string, quantity int, unitPrice types.Money) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(t.Lines) + 1,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(types.NewMoneyFromInt(int64(quantity))),
	}

	t.Lines = append(t.Lines, line)
	t.recalculateTotal()
}

func (t *Transaction) recalculateTotal() {
	total := types.Zero()
	for _, line := range t.Lines {
		total = total.Add(line.Subtotal)
	}
	t.TotalAmount = total
}

// SumOfLines returns the sum of line subtotals. TotalAmount is expected to
// equal it, but the engine treats that as a testable property, not a
// guarantee.
func (t *Transaction) SumOfLines() types.Money {
	total := types.Zero()
	for _, line := range t.Lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// ConvertToCancellationDraft rewrites the transaction in place into a
// zero-valued cancellation record: the hotel-domain reversal policy. The
// original invoice content is lost; only the number and the note survive as
// the audit remnant.
func (t *Transaction) ConvertToCancellationDraft(bookingBusinessID string) {
	t.BookingType = BookingTypeCancellation
	t.PaymentStatus = PaymentPending
	t.TotalAmount = types.Zero()
	t.Lines = []Line{{
		LineID:    id.New(),
		LineNo:    1,
		Name:      "Cancellation fee",
		Quantity:  1,
		UnitPrice: types.Zero(),
		Subtotal:  types.Zero(),
	}}
	t.Notes = fmt.Sprintf("Cancellation of booking %s", bookingBusinessID)
	t.UpdatedAt = time.Now().UTC()
}

// Validate implements entity.Validatable.
func (t *Transaction) Validate(ctx context.Context) error {
	if t.Number == "" {
		return apperror.NewValidation("invoice number is required").
			WithDetail("field", "number")
	}

	if id.IsNil(t.BookingID) {
		return apperror.NewValidation("booking reference is required").
			WithDetail("field", "bookingId")
	}

	if !t.Currency.Recognized() {
		return apperror.NewValidation("unsupported currency").
			WithDetail("field", "currency").
			WithDetail("currency", string(t.Currency))
	}

	for i, line := range t.Lines {
		if line.Name == "" {
			return apperror.NewValidation("line name is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
