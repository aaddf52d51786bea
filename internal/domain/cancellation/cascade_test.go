package cancellation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
	"wisma/internal/core/types"

	"wisma/internal/domain"
	"wisma/internal/domain/booking"
	"wisma/internal/domain/cancellation"
	"wisma/internal/domain/cashflow"
	"wisma/internal/domain/invoice"
)

// --- In-memory fakes ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[booking.Domain]map[id.ID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[booking.Domain]map[id.ID]*booking.Booking{
		booking.DomainHotel:      {},
		booking.DomainAuditorium: {},
	}}
}

func (f *fakeBookingRepo) add(b *booking.Booking) { f.bookings[b.Domain][b.ID] = b }

func (f *fakeBookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(b)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, dom booking.Domain, bookingID id.ID) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[dom][bookingID]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, apperror.NewNotFound("booking", bookingID.String())
}

func (f *fakeBookingRepo) GetByBusinessID(ctx context.Context, dom booking.Domain, businessID string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings[dom] {
		if b.BusinessID == businessID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("booking", businessID)
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, dom booking.Domain, bookingID id.ID, status booking.Status, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[dom][bookingID]
	if !ok {
		return apperror.NewNotFound("booking", bookingID.String())
	}
	if b.Version != expectedVersion {
		return apperror.NewConcurrentModification("booking", bookingID.String())
	}
	b.Status = status
	b.Version++
	return nil
}

type fakeInvoiceRepo struct {
	mu           sync.Mutex
	transactions map[id.ID]*invoice.Transaction
	failUpdateOn string // invoice number whose Update fails
	failDelete   bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{transactions: map[id.ID]*invoice.Transaction{}}
}

func (f *fakeInvoiceRepo) add(t *invoice.Transaction) { f.transactions[t.ID] = t }

func (f *fakeInvoiceRepo) Create(ctx context.Context, t *invoice.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(t)
	return nil
}

func (f *fakeInvoiceRepo) SaveLines(ctx context.Context, txID id.ID, lines []invoice.Line) error {
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, txID id.ID) (*invoice.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.transactions[txID]; ok {
		return t, nil
	}
	return nil, apperror.NewNotFound("transaction", txID.String())
}

func (f *fakeInvoiceRepo) ListByBooking(ctx context.Context, bookingType invoice.BookingType, bookingID id.ID) ([]*invoice.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*invoice.Transaction
	for _, t := range f.transactions {
		if t.BookingType == bookingType && t.BookingID == bookingID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListPaid(ctx context.Context, page domain.Page) ([]*invoice.Transaction, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, t *invoice.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.Number == f.failUpdateOn {
		return assert.AnError
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, txID id.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return assert.AnError
	}
	if _, ok := f.transactions[txID]; !ok {
		return apperror.NewNotFound("transaction", txID.String())
	}
	delete(f.transactions, txID)
	return nil
}

type fakeCashflowRepo struct {
	mu         sync.Mutex
	entries    map[id.ID]*cashflow.Entry
	failDelete bool
	failLookup bool
}

func newFakeCashflowRepo() *fakeCashflowRepo {
	return &fakeCashflowRepo{entries: map[id.ID]*cashflow.Entry{}}
}

func (f *fakeCashflowRepo) add(e *cashflow.Entry) { f.entries[e.ID] = e }

func (f *fakeCashflowRepo) Create(ctx context.Context, e *cashflow.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(e)
	return nil
}

func (f *fakeCashflowRepo) GetByInvoiceID(ctx context.Context, invoiceID id.ID) (*cashflow.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLookup {
		return nil, assert.AnError
	}
	for _, e := range f.entries {
		if e.InvoiceID != nil && *e.InvoiceID == invoiceID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("cashflow entry", invoiceID.String())
}

func (f *fakeCashflowRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*cashflow.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLookup {
		return nil, assert.AnError
	}
	for _, e := range f.entries {
		if e.MentionsInvoice(invoiceNumber) {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("cashflow entry", invoiceNumber)
}

func (f *fakeCashflowRepo) ListApprovedOut(ctx context.Context, page domain.Page) ([]*cashflow.Entry, error) {
	return nil, nil
}

func (f *fakeCashflowRepo) Delete(ctx context.Context, entryID id.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return assert.AnError
	}
	if _, ok := f.entries[entryID]; !ok {
		return apperror.NewNotFound("cashflow entry", entryID.String())
	}
	delete(f.entries, entryID)
	return nil
}

// --- Fixtures ---

type fixture struct {
	bookings *fakeBookingRepo
	invoices *fakeInvoiceRepo
	cashflow *fakeCashflowRepo
	svc      *cancellation.Service
}

func newFixture() *fixture {
	bookings := newFakeBookingRepo()
	invoices := newFakeInvoiceRepo()
	cf := newFakeCashflowRepo()
	svc := cancellation.NewService(
		booking.NewResolver(bookings), bookings, invoices, cf, nil, time.Second)
	return &fixture{bookings: bookings, invoices: invoices, cashflow: cf, svc: svc}
}

func (fx *fixture) addAuditoriumBooking(businessID string) *booking.Booking {
	eventDate := time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC)
	b := booking.NewAuditoriumBooking("Yayasan Melati", eventDate, "09:00", "17:00")
	b.BusinessID = businessID
	b.Status = booking.StatusConfirmed
	fx.bookings.add(b)
	return b
}

func (fx *fixture) addHotelBooking(businessID string) *booking.Booking {
	checkIn := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)
	b := booking.NewHotelBooking("S. Wahyuni", checkIn, checkOut)
	b.BusinessID = businessID
	b.Status = booking.StatusConfirmed
	fx.bookings.add(b)
	return b
}

func (fx *fixture) addPaidInvoice(b *booking.Booking, number string, amount int64) *invoice.Transaction {
	t := invoice.NewTransaction(invoice.BookingTypeFor(b.Domain), b.ID, types.IDR)
	t.Number = number
	t.AddLine("Hall package 9h", 1, types.NewMoneyFromInt(amount))
	t.PaymentStatus = invoice.PaymentPaid
	fx.invoices.add(t)
	return t
}

func (fx *fixture) addCashflowFor(t *invoice.Transaction, explicitRef bool) *cashflow.Entry {
	e := &cashflow.Entry{
		Type:            cashflow.FlowIn,
		Amount:          t.TotalAmount,
		Currency:        t.Currency,
		ApprovalStatus:  cashflow.ApprovalApproved,
		TransactionDate: time.Now(),
		Description:     "Payment received for " + t.Number,
	}
	e.ID = id.New()
	e.Version = 1
	if explicitRef {
		ref := t.ID
		e.InvoiceID = &ref
	}
	fx.cashflow.add(e)
	return e
}

// --- Tests ---

func TestCancel_UnknownReference(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Cancel(context.Background(), booking.DomainHotel, "HTL-9999")
	assert.True(t, apperror.IsNotFound(err))

	_, err = fx.svc.Cancel(context.Background(), booking.DomainHotel, id.New().String())
	assert.True(t, apperror.IsNotFound(err))
}

func TestCancel_EmptyReference(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Cancel(context.Background(), booking.DomainHotel, "  ")
	assert.True(t, apperror.IsValidation(err))
}

func TestCancel_AuditoriumDeletesTransaction(t *testing.T) {
	fx := newFixture()
	b := fx.addAuditoriumBooking("AULA-0007")
	tr := fx.addPaidInvoice(b, "INV-2026-0031", 2_750_000)
	entry := fx.addCashflowFor(tr, true)

	res, err := fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0007")
	require.NoError(t, err)

	assert.False(t, res.AlreadyCancelled)
	assert.Equal(t, []string{"INV-2026-0031"}, res.ReversedInvoices)
	assert.Equal(t, 1, res.RemovedCashflowEntries)

	got, _ := fx.bookings.GetByID(context.Background(), booking.DomainAuditorium, b.ID)
	assert.Equal(t, booking.StatusCancelled, got.Status)

	_, err = fx.invoices.GetByID(context.Background(), tr.ID)
	assert.True(t, apperror.IsNotFound(err), "transaction must be gone")

	assert.NotContains(t, fx.cashflow.entries, entry.ID, "cashflow entry must be gone")
}

func TestCancel_HotelConvertsTransactionToDraft(t *testing.T) {
	fx := newFixture()
	b := fx.addHotelBooking("HTL-0042")
	tr := fx.addPaidInvoice(b, "INV-2026-0032", 3_600_000)
	// Legacy entry: no explicit reference, linked only through the text.
	fx.addCashflowFor(tr, false)

	res, err := fx.svc.Cancel(context.Background(), booking.DomainHotel, "HTL-0042")
	require.NoError(t, err)
	assert.Equal(t, 1, res.RemovedCashflowEntries)

	got, err := fx.invoices.GetByID(context.Background(), tr.ID)
	require.NoError(t, err, "hotel transaction must survive")
	assert.Equal(t, invoice.BookingTypeCancellation, got.BookingType)
	assert.Equal(t, invoice.PaymentPending, got.PaymentStatus)
	assert.True(t, got.TotalAmount.IsZero())
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].Subtotal.IsZero())
	assert.Contains(t, got.Notes, "HTL-0042")

	assert.Empty(t, fx.cashflow.entries)
}

func TestCancel_Idempotent(t *testing.T) {
	fx := newFixture()
	b := fx.addAuditoriumBooking("AULA-0001")
	tr := fx.addPaidInvoice(b, "INV-2026-0001", 1_500_000)
	fx.addCashflowFor(tr, true)

	first, err := fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0001")
	require.NoError(t, err)
	assert.False(t, first.AlreadyCancelled)

	// Second run: entry and transaction are gone already; must not raise.
	second, err := fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0001")
	require.NoError(t, err)
	assert.True(t, second.AlreadyCancelled)
	assert.Empty(t, second.ReversedInvoices)
	assert.Equal(t, 0, second.RemovedCashflowEntries)

	got, _ := fx.bookings.GetByID(context.Background(), booking.DomainAuditorium, b.ID)
	assert.Equal(t, booking.StatusCancelled, got.Status)
}

func TestCancel_HotelRerunSkipsDrafts(t *testing.T) {
	fx := newFixture()
	b := fx.addHotelBooking("HTL-0010")
	fx.addPaidInvoice(b, "INV-2026-0040", 500_000)

	_, err := fx.svc.Cancel(context.Background(), booking.DomainHotel, "HTL-0010")
	require.NoError(t, err)

	second, err := fx.svc.Cancel(context.Background(), booking.DomainHotel, "HTL-0010")
	require.NoError(t, err)
	assert.Empty(t, second.ReversedInvoices, "converted draft must not be reversed again")
}

func TestCancel_ByInternalID(t *testing.T) {
	fx := newFixture()
	b := fx.addHotelBooking("HTL-0005")

	res, err := fx.svc.Cancel(context.Background(), booking.DomainHotel, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "HTL-0005", res.BusinessID)

	got, _ := fx.bookings.GetByID(context.Background(), booking.DomainHotel, b.ID)
	assert.Equal(t, booking.StatusCancelled, got.Status)
}

func TestCancel_MidCascadeFailureLeavesPartialState(t *testing.T) {
	fx := newFixture()
	b := fx.addAuditoriumBooking("AULA-0020")
	fx.addPaidInvoice(b, "INV-2026-0050", 1_500_000)
	fx.addPaidInvoice(b, "INV-2026-0051", 1_500_000)
	fx.invoices.failDelete = true

	_, err := fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0020")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)

	// The status write happened before the reversal failed; there is no
	// rollback of completed steps.
	got, _ := fx.bookings.GetByID(context.Background(), booking.DomainAuditorium, b.ID)
	assert.Equal(t, booking.StatusCancelled, got.Status)
}

func TestCancel_CashflowFailuresAreSwallowed(t *testing.T) {
	fx := newFixture()
	b := fx.addAuditoriumBooking("AULA-0030")
	tr := fx.addPaidInvoice(b, "INV-2026-0060", 2_000_000)
	fx.addCashflowFor(tr, true)
	fx.cashflow.failDelete = true

	res, err := fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0030")
	require.NoError(t, err, "cashflow failure must not fail the cascade")
	assert.Equal(t, []string{"INV-2026-0060"}, res.ReversedInvoices)
	assert.Equal(t, 0, res.RemovedCashflowEntries)
}

func TestCancel_CashflowLookupErrorIsSwallowed(t *testing.T) {
	fx := newFixture()
	b := fx.addAuditoriumBooking("AULA-0031")
	fx.addPaidInvoice(b, "INV-2026-0061", 2_000_000)
	fx.cashflow.failLookup = true

	_, err := fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0031")
	assert.NoError(t, err)
}

func TestCancel_ConcurrentCallsSerializePerBooking(t *testing.T) {
	fx := newFixture()
	b := fx.addAuditoriumBooking("AULA-0040")
	tr := fx.addPaidInvoice(b, "INV-2026-0070", 1_500_000)
	fx.addCashflowFor(tr, true)

	const callers = 8
	results := make([]*cancellation.Result, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fx.svc.Cancel(context.Background(), booking.DomainAuditorium, "AULA-0040")
		}(i)
	}
	wg.Wait()

	reversed := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		reversed += len(results[i].ReversedInvoices)
	}
	assert.Equal(t, 1, reversed, "exactly one cascade must process the transaction")
	assert.Empty(t, fx.cashflow.entries)
}
