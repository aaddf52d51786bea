package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
)

// fakeRepo is an in-memory Repository keyed the same way the store is:
// one collection per domain, unique internal and business IDs within each.
type fakeRepo struct {
	byID         map[Domain]map[id.ID]*Booking
	byBusinessID map[Domain]map[string]*Booking
	failWith     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID: map[Domain]map[id.ID]*Booking{
			DomainHotel:      {},
			DomainAuditorium: {},
		},
		byBusinessID: map[Domain]map[string]*Booking{
			DomainHotel:      {},
			DomainAuditorium: {},
		},
	}
}

func (f *fakeRepo) add(b *Booking) {
	f.byID[b.Domain][b.ID] = b
	f.byBusinessID[b.Domain][b.BusinessID] = b
}

func (f *fakeRepo) Create(ctx context.Context, b *Booking) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.add(b)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, domain Domain, bookingID id.ID) (*Booking, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if b, ok := f.byID[domain][bookingID]; ok {
		return b, nil
	}
	return nil, apperror.NewNotFound("booking", bookingID.String())
}

func (f *fakeRepo) GetByBusinessID(ctx context.Context, domain Domain, businessID string) (*Booking, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if b, ok := f.byBusinessID[domain][businessID]; ok {
		return b, nil
	}
	return nil, apperror.NewNotFound("booking", businessID)
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, domain Domain, bookingID id.ID, status Status, expectedVersion int) error {
	if f.failWith != nil {
		return f.failWith
	}
	b, ok := f.byID[domain][bookingID]
	if !ok {
		return apperror.NewNotFound("booking", bookingID.String())
	}
	if b.Version != expectedVersion {
		return apperror.NewConcurrentModification("booking", bookingID.String())
	}
	b.Status = status
	b.Touch()
	return nil
}

func testHotelBooking(businessID string) *Booking {
	checkIn := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)
	b := NewHotelBooking("A. Rahman", checkIn, checkOut)
	b.BusinessID = businessID
	b.Status = StatusConfirmed
	return b
}

func TestResolver_ByBusinessID(t *testing.T) {
	repo := newFakeRepo()
	b := testHotelBooking("HTL-0001")
	repo.add(b)

	got, err := NewResolver(repo).Resolve(context.Background(), DomainHotel, "HTL-0001")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestResolver_ByInternalID(t *testing.T) {
	repo := newFakeRepo()
	b := testHotelBooking("HTL-0001")
	repo.add(b)

	got, err := NewResolver(repo).Resolve(context.Background(), DomainHotel, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "HTL-0001", got.BusinessID)
}

func TestResolver_UnknownReference(t *testing.T) {
	repo := newFakeRepo()
	repo.add(testHotelBooking("HTL-0001"))

	resolver := NewResolver(repo)

	// Unknown business-ID-shaped reference.
	_, err := resolver.Resolve(context.Background(), DomainHotel, "HTL-9999")
	assert.True(t, apperror.IsNotFound(err))

	// Unknown internal-ID-shaped reference.
	_, err = resolver.Resolve(context.Background(), DomainHotel, id.New().String())
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolver_DomainScoping(t *testing.T) {
	repo := newFakeRepo()
	repo.add(testHotelBooking("HTL-0001"))

	// A hotel booking must not resolve through the auditorium collection.
	_, err := NewResolver(repo).Resolve(context.Background(), DomainAuditorium, "HTL-0001")
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolver_EmptyReference(t *testing.T) {
	resolver := NewResolver(newFakeRepo())

	_, err := resolver.Resolve(context.Background(), DomainHotel, "   ")
	assert.True(t, apperror.IsValidation(err))
}

func TestResolver_StoreErrorPassesThrough(t *testing.T) {
	repo := newFakeRepo()
	repo.failWith = apperror.NewInternal(assert.AnError)

	_, err := NewResolver(repo).Resolve(context.Background(), DomainHotel, "HTL-0001")
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))
}
