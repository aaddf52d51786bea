// Package cashflow provides ledger lines for recognized cash movement.
//
// An entry links to an invoice through InvoiceID when the writer recorded the
// reference. Legacy rows carry no reference at all; for those, the only
// linkage is the invoice number appearing as a substring of the free-text
// description, and a false match is possible. Lookups therefore distinguish
// the primary reference path from the best-effort text-match fallback.
package cashflow

import (
	"strings"
	"time"

	"wisma/internal/core/entity"
	"wisma/internal/core/id"
	"wisma/internal/core/types"
)

// FlowType is the direction of a cash movement.
type FlowType string

const (
	FlowIn  FlowType = "in"
	FlowOut FlowType = "out"
)

// ApprovalStatus is the review state of an entry. Only approved outgoing
// entries count against the balance.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Entry is one ledger line.
type Entry struct {
	entity.BaseRecord

	Type            FlowType       `db:"type" json:"type"`
	Amount          types.Money    `db:"amount" json:"amount"`
	Currency        types.Currency `db:"currency" json:"currency"`
	Description     string         `db:"description" json:"description"`
	ApprovalStatus  ApprovalStatus `db:"approval_status" json:"approvalStatus"`
	TransactionDate time.Time      `db:"transaction_date" json:"transactionDate"`

	// InvoiceID is the explicit reference to the settled invoice. Nil on
	// legacy rows written before the reference existed.
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`
}

// MentionsInvoice reports whether the entry's description contains the
// invoice number. This is the legacy text-match linkage.
func (e *Entry) MentionsInvoice(invoiceNumber string) bool {
	if invoiceNumber == "" {
		return false
	}
	return strings.Contains(e.Description, invoiceNumber)
}
