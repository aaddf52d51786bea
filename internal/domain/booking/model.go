// Package booking provides the reservation records for both hospitality
// domains: hotel rooms and auditorium hall rentals. Each domain lives in its
// own collection; the business ID and the internal ID are both unique within
// a domain's collection.
package booking

import (
	"context"
	"time"

	"wisma/internal/core/apperror"
	"wisma/internal/core/entity"
)

// Domain discriminates which collection a booking belongs to.
type Domain string

const (
	DomainHotel      Domain = "hotel"
	DomainAuditorium Domain = "auditorium"
)

// ParseDomain validates a caller-supplied domain string.
func ParseDomain(s string) (Domain, error) {
	switch Domain(s) {
	case DomainHotel:
		return DomainHotel, nil
	case DomainAuditorium:
		return DomainAuditorium, nil
	}
	return "", apperror.NewValidation("unknown booking domain").
		WithDetail("domain", s)
}

// BusinessIDPrefix returns the numerator prefix for the domain.
func (d Domain) BusinessIDPrefix() string {
	if d == DomainAuditorium {
		return "AULA"
	}
	return "HTL"
}

// Status is the booking lifecycle state. The reconciliation engine only ever
// moves a booking to StatusCancelled; that transition is terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCancelled Status = "cancelled"
)

// Booking is a reservation record.
//
// Domain is implied by the collection the record lives in; repositories set
// it on load and it is never stored as a column.
type Booking struct {
	entity.BaseRecord

	Domain Domain `db:"-" json:"domain"`

	// BusinessID is the human-readable identifier ("HTL-0042", "AULA-0007"),
	// assigned once at creation.
	BusinessID string `db:"business_id" json:"businessId"`

	Status Status `db:"status" json:"status"`

	GuestName string `db:"guest_name" json:"guestName"`

	// Hotel scheduling
	CheckIn  *time.Time `db:"check_in" json:"checkIn,omitempty"`
	CheckOut *time.Time `db:"check_out" json:"checkOut,omitempty"`

	// Auditorium scheduling. Start/end are wall-clock "HH:MM" values; an end
	// at or before the start means the event crosses midnight.
	EventDate *time.Time `db:"event_date" json:"eventDate,omitempty"`
	StartTime string     `db:"start_time" json:"startTime,omitempty"`
	EndTime   string     `db:"end_time" json:"endTime,omitempty"`
}

// NewHotelBooking creates a pending hotel booking.
func NewHotelBooking(guestName string, checkIn, checkOut time.Time) *Booking {
	return &Booking{
		BaseRecord: entity.NewBaseRecord(),
		Domain:     DomainHotel,
		Status:     StatusPending,
		GuestName:  guestName,
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
	}
}

// NewAuditoriumBooking creates a pending hall rental booking.
func NewAuditoriumBooking(guestName string, eventDate time.Time, startTime, endTime string) *Booking {
	return &Booking{
		BaseRecord: entity.NewBaseRecord(),
		Domain:     DomainAuditorium,
		Status:     StatusPending,
		GuestName:  guestName,
		EventDate:  &eventDate,
		StartTime:  startTime,
		EndTime:    endTime,
	}
}

// Validate implements entity.Validatable.
func (b *Booking) Validate(ctx context.Context) error {
	if _, err := ParseDomain(string(b.Domain)); err != nil {
		return err
	}

	if b.GuestName == "" {
		return apperror.NewValidation("guest name is required").
			WithDetail("field", "guestName")
	}

	switch b.Domain {
	case DomainHotel:
		if b.CheckIn == nil || b.CheckOut == nil {
			return apperror.NewValidation("check-in and check-out are required").
				WithDetail("field", "checkIn")
		}
		if !b.CheckOut.After(*b.CheckIn) {
			return apperror.NewValidation("check-out must be after check-in").
				WithDetail("field", "checkOut")
		}
	case DomainAuditorium:
		if b.EventDate == nil {
			return apperror.NewValidation("event date is required").
				WithDetail("field", "eventDate")
		}
		if b.StartTime == "" || b.EndTime == "" {
			return apperror.NewValidation("event start and end times are required").
				WithDetail("field", "startTime")
		}
	}

	return nil
}

// IsCancelled reports whether the booking has reached the terminal state.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}
