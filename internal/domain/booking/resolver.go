package booking

import (
	"context"
	"strings"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
)

// Resolver turns a booking reference into a canonical booking record.
// Callers hold either the business ID or the internal ID interchangeably, so
// resolution tries the business ID first and falls back to the internal ID.
type Resolver struct {
	repo Repository
}

// NewResolver creates a new booking resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up a booking by reference within one domain's collection.
// An empty reference is a validation error; a reference that matches neither
// ID form is NOT_FOUND.
func (r *Resolver) Resolve(ctx context.Context, domain Domain, reference string) (*Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperror.NewValidation("booking reference is required").
			WithDetail("field", "reference")
	}

	b, err := r.repo.GetByBusinessID(ctx, domain, reference)
	if err == nil {
		return b, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	// Not a known business ID; the caller may have supplied the internal ID.
	internalID, parseErr := id.Parse(reference)
	if parseErr != nil {
		return nil, apperror.NewNotFound("booking", reference)
	}

	b, err = r.repo.GetByID(ctx, domain, internalID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("booking", reference)
		}
		return nil, err
	}
	return b, nil
}
