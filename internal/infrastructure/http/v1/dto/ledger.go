package dto

import (
	"wisma/internal/domain/balance"
	"wisma/internal/domain/invoice"
	"wisma/internal/domain/pricing"
)

// --- Balance DTOs ---

// BalanceResponse is the net position for one currency.
type BalanceResponse struct {
	Currency string `json:"currency"`
	Income   string `json:"income"`
	Outgoing string `json:"outgoing"`
	Net      string `json:"net"`
}

// BalancesResponse wraps the per-currency balances.
type BalancesResponse struct {
	Balances []BalanceResponse `json:"balances"`
}

// FromBalances creates BalancesResponse from aggregation output.
func FromBalances(balances []balance.Balance) BalancesResponse {
	out := BalancesResponse{Balances: make([]BalanceResponse, 0, len(balances))}
	for _, b := range balances {
		out.Balances = append(out.Balances, BalanceResponse{
			Currency: string(b.Currency),
			Income:   b.Income.String(),
			Outgoing: b.Outgoing.String(),
			Net:      b.Net.String(),
		})
	}
	return out
}

// --- Pricing DTOs ---

// HallQuoteRequest carries the rental window as wall-clock times.
type HallQuoteRequest struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// HallQuoteResponse is the priced quote for a hall rental window.
type HallQuoteResponse struct {
	DurationHours    int    `json:"durationHours"`
	AfterHours       int    `json:"afterHours"`
	PackageName      string `json:"packageName"`
	PackageHours     int    `json:"packageHours"`
	BasePrice        string `json:"basePrice"`
	ExtraHours       int    `json:"extraHours"`
	ExtraPrice       string `json:"extraPrice"`
	AfterHoursCharge string `json:"afterHoursCharge"`
	Total            string `json:"total"`
}

// FromQuote creates HallQuoteResponse from a pricing quote.
func FromQuote(q pricing.Quote) HallQuoteResponse {
	return HallQuoteResponse{
		DurationHours:    q.DurationHours,
		AfterHours:       q.AfterHours,
		PackageName:      q.Pricing.Tier.Name,
		PackageHours:     q.Pricing.Tier.Hours,
		BasePrice:        q.Pricing.BasePrice.String(),
		ExtraHours:       q.Pricing.ExtraHours,
		ExtraPrice:       q.Pricing.ExtraPrice.String(),
		AfterHoursCharge: q.AfterHoursCharge.String(),
		Total:            q.Total.String(),
	}
}

// --- Invoice DTOs ---

// InvoiceLineResponse is one billed item.
type InvoiceLineResponse struct {
	LineNo    int    `json:"lineNo"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

// InvoiceResponse is the response body for a transaction document.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	BookingType   string                `json:"bookingType"`
	BookingID     string                `json:"bookingId"`
	TotalAmount   string                `json:"totalAmount"`
	Currency      string                `json:"currency"`
	PaymentStatus string                `json:"paymentStatus"`
	Notes         string                `json:"notes,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// FromInvoice creates InvoiceResponse from a transaction document.
func FromInvoice(t *invoice.Transaction) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            t.ID.String(),
		Number:        t.Number,
		BookingType:   string(t.BookingType),
		BookingID:     t.BookingID.String(),
		TotalAmount:   t.TotalAmount.String(),
		Currency:      string(t.Currency),
		PaymentStatus: string(t.PaymentStatus),
		Notes:         t.Notes,
		Lines:         make([]InvoiceLineResponse, 0, len(t.Lines)),
	}
	for _, line := range t.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineNo:    line.LineNo,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
			Subtotal:  line.Subtotal.String(),
		})
	}
	return resp
}
