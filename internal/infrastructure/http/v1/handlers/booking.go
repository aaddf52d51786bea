package handlers

import (
	"github.com/gin-gonic/gin"

	"wisma/internal/domain/booking"
	"wisma/internal/domain/cancellation"
	"wisma/internal/infrastructure/http/v1/dto"
)

// BookingHandler handles booking endpoints for both domains. The :domain
// path segment selects the collection (hotel or auditorium).
type BookingHandler struct {
	*BaseHandler
	bookings *booking.Service
	resolver *booking.Resolver
	cascades *cancellation.Service
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings *booking.Service, resolver *booking.Resolver, cascades *cancellation.Service) *BookingHandler {
	return &BookingHandler{
		BaseHandler: NewBaseHandler(),
		bookings:    bookings,
		resolver:    resolver,
		cascades:    cascades,
	}
}

func (h *BookingHandler) domain(c *gin.Context) (booking.Domain, bool) {
	domain, err := booking.ParseDomain(c.Param("domain"))
	if err != nil {
		h.Error(c, err)
		return "", false
	}
	return domain, true
}

// Create handles POST /api/v1/bookings/:domain
func (h *BookingHandler) Create(c *gin.Context) {
	domain, ok := h.domain(c)
	if !ok {
		return
	}

	var b *booking.Booking
	switch domain {
	case booking.DomainHotel:
		var req dto.CreateHotelBookingRequest
		if !h.BindJSON(c, &req) {
			return
		}
		b = req.ToEntity()
	case booking.DomainAuditorium:
		var req dto.CreateAuditoriumBookingRequest
		if !h.BindJSON(c, &req) {
			return
		}
		b = req.ToEntity()
	}

	if err := h.bookings.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromBooking(b))
}

// Get handles GET /api/v1/bookings/:domain/:reference
// The reference may be the business ID or the internal UUID.
func (h *BookingHandler) Get(c *gin.Context) {
	domain, ok := h.domain(c)
	if !ok {
		return
	}

	b, err := h.resolver.Resolve(c.Request.Context(), domain, c.Param("reference"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBooking(b))
}

// Cancel handles POST /api/v1/bookings/:domain/:reference/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	domain, ok := h.domain(c)
	if !ok {
		return
	}

	result, err := h.cascades.Cancel(c.Request.Context(), domain, c.Param("reference"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCancellationResult(result))
}
