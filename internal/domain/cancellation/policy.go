package cancellation

import (
	"wisma/internal/domain/booking"
)

// ReversalAction is what happens to a booking's transactions when the booking
// is cancelled.
type ReversalAction string

const (
	// ReversalDelete removes the transaction outright. Full reversal, no
	// audit remnant.
	ReversalDelete ReversalAction = "delete"

	// ReversalConvertToDraft rewrites the transaction in place into a
	// zero-valued cancellation draft. Keeps an audit remnant at the cost of
	// the original invoice content.
	ReversalConvertToDraft ReversalAction = "convert_to_draft"
)

// PolicyTable maps a booking domain to its reversal action.
type PolicyTable map[booking.Domain]ReversalAction

// DefaultPolicies returns the standing per-domain reversal policy.
//
// The asymmetry is inherited billing practice, kept explicit here rather than
// silently unified.
// TODO: product to confirm whether hotel and auditorium reversals should
// converge on one of the two actions.
func DefaultPolicies() PolicyTable {
	return PolicyTable{
		booking.DomainAuditorium: ReversalDelete,
		booking.DomainHotel:      ReversalConvertToDraft,
	}
}

// For returns the action for a domain, defaulting to the audit-preserving
// draft conversion for domains the table does not name.
func (p PolicyTable) For(d booking.Domain) ReversalAction {
	if action, ok := p[d]; ok {
		return action
	}
	return ReversalConvertToDraft
}
