package handlers

import (
	"github.com/gin-gonic/gin"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
	"wisma/internal/core/types"
	"wisma/internal/domain/balance"
	"wisma/internal/domain/booking"
	"wisma/internal/domain/invoice"
	"wisma/internal/domain/pricing"
	"wisma/internal/infrastructure/http/v1/dto"
)

// LedgerHandler handles balances, pricing quotes and invoices.
type LedgerHandler struct {
	*BaseHandler
	balances *balance.Aggregator
	invoices *invoice.Service
	resolver *booking.Resolver
	tariff   pricing.Tariff
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(balances *balance.Aggregator, invoices *invoice.Service, resolver *booking.Resolver, tariff pricing.Tariff) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: NewBaseHandler(),
		balances:    balances,
		invoices:    invoices,
		resolver:    resolver,
		tariff:      tariff,
	}
}

// Balances handles GET /api/v1/balances
func (h *LedgerHandler) Balances(c *gin.Context) {
	balances, err := h.balances.ComputeBalances(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBalances(balances))
}

// QuoteHall handles GET /api/v1/pricing/hall?start=HH:MM&end=HH:MM
func (h *LedgerHandler) QuoteHall(c *gin.Context) {
	var req dto.HallQuoteRequest
	if !h.BindQuery(c, &req) {
		return
	}
	h.OK(c, dto.FromQuote(h.tariff.Quote(req.Start, req.End)))
}

// CreateHallInvoice handles POST /api/v1/bookings/:domain/:reference/invoice
// It prices the booking's rental window and issues the invoice. Only hall
// rentals are priced automatically.
func (h *LedgerHandler) CreateHallInvoice(c *gin.Context) {
	domain, err := booking.ParseDomain(c.Param("domain"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if domain != booking.DomainAuditorium {
		h.Error(c, apperror.NewValidation("automatic invoicing is only available for hall rentals").
			WithDetail("domain", string(domain)))
		return
	}

	b, err := h.resolver.Resolve(c.Request.Context(), domain, c.Param("reference"))
	if err != nil {
		h.Error(c, err)
		return
	}

	currency := types.Currency(c.DefaultQuery("currency", string(types.IDR)))
	if !currency.Recognized() {
		h.Error(c, apperror.NewValidation("unrecognized currency").
			WithDetail("currency", string(currency)))
		return
	}

	t, err := h.invoices.CreateForHallBooking(c.Request.Context(), b, currency)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromInvoice(t))
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *LedgerHandler) GetInvoice(c *gin.Context) {
	txID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid invoice id").
			WithDetail("id", c.Param("id")))
		return
	}

	t, err := h.invoices.Get(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(t))
}
