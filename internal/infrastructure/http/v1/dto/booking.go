package dto

import (
	"time"

	"wisma/internal/domain/booking"
	"wisma/internal/domain/cancellation"
)

// --- Request DTOs ---

// CreateHotelBookingRequest is the request body for a hotel booking.
type CreateHotelBookingRequest struct {
	GuestName string    `json:"guestName" binding:"required"`
	CheckIn   time.Time `json:"checkIn" binding:"required"`
	CheckOut  time.Time `json:"checkOut" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateHotelBookingRequest) ToEntity() *booking.Booking {
	return booking.NewHotelBooking(r.GuestName, r.CheckIn, r.CheckOut)
}

// CreateAuditoriumBookingRequest is the request body for a hall rental.
type CreateAuditoriumBookingRequest struct {
	GuestName string    `json:"guestName" binding:"required"`
	EventDate time.Time `json:"eventDate" binding:"required"`
	StartTime string    `json:"startTime" binding:"required"`
	EndTime   string    `json:"endTime" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateAuditoriumBookingRequest) ToEntity() *booking.Booking {
	return booking.NewAuditoriumBooking(r.GuestName, r.EventDate, r.StartTime, r.EndTime)
}

// --- Response DTOs ---

// BookingResponse is the response body for a booking.
type BookingResponse struct {
	ID         string     `json:"id"`
	Domain     string     `json:"domain"`
	BusinessID string     `json:"businessId"`
	Status     string     `json:"status"`
	GuestName  string     `json:"guestName"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	EventDate  *time.Time `json:"eventDate,omitempty"`
	StartTime  string     `json:"startTime,omitempty"`
	EndTime    string     `json:"endTime,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// FromBooking creates BookingResponse from a domain booking.
func FromBooking(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID.String(),
		Domain:     string(b.Domain),
		BusinessID: b.BusinessID,
		Status:     string(b.Status),
		GuestName:  b.GuestName,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		EventDate:  b.EventDate,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// CancellationResponse reports what a cancellation cascade did.
type CancellationResponse struct {
	BookingID              string   `json:"bookingId"`
	BusinessID             string   `json:"businessId"`
	AlreadyCancelled       bool     `json:"alreadyCancelled"`
	ReversedInvoices       []string `json:"reversedInvoices"`
	RemovedCashflowEntries int      `json:"removedCashflowEntries"`
}

// FromCancellationResult creates CancellationResponse from a cascade result.
func FromCancellationResult(r *cancellation.Result) CancellationResponse {
	return CancellationResponse{
		BookingID:              r.BookingID.String(),
		BusinessID:             r.BusinessID,
		AlreadyCancelled:       r.AlreadyCancelled,
		ReversedInvoices:       r.ReversedInvoices,
		RemovedCashflowEntries: r.RemovedCashflowEntries,
	}
}
