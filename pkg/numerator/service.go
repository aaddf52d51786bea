// Package numerator issues human-readable business identifiers for bookings
// and invoices (e.g. "HTL-0042", "INV-2026-0007"). Numbers are allocated
// strictly through UPDATE ... RETURNING, so they are sequential without gaps.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Config holds numbering configuration for one prefix.
type Config struct {
	// Prefix added to all numbers (e.g. "HTL", "AULA", "INV")
	Prefix string

	// IncludeYear adds the year to the number and resets the sequence yearly
	IncludeYear bool

	// PadWidth is the minimum number width (default 4)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 4,
	}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service provides business-ID generation.
type Service struct {
	querier Querier
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

const nextValSQL = `
INSERT INTO sys_sequences (key, current_val)
VALUES ($1, 1)
ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
RETURNING current_val`

// Next allocates the next number for the configured prefix.
func (s *Service) Next(ctx context.Context, cfg Config, now time.Time) (string, error) {
	if cfg.PadWidth <= 0 {
		cfg.PadWidth = 4
	}

	key := cfg.Prefix
	if cfg.IncludeYear {
		key = fmt.Sprintf("%s_%d", cfg.Prefix, now.Year())
	}

	var seq int64
	if err := s.querier.QueryRow(ctx, nextValSQL, key).Scan(&seq); err != nil {
		return "", fmt.Errorf("next sequence value for %q: %w", key, err)
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, now.Year(), cfg.PadWidth, seq), nil
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, cfg.PadWidth, seq), nil
}
