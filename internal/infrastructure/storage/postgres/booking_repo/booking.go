// Package booking_repo provides the PostgreSQL implementation of the booking
// repository over the hotel_bookings and auditorium_bookings tables.
package booking_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
	"wisma/internal/domain/booking"
	"wisma/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ booking.Repository = (*Repo)(nil)

// Each booking domain lives in its own table with its own scheduling columns.
var tableCols = map[booking.Domain]struct {
	table string
	cols  []string
}{
	booking.DomainHotel: {
		table: "hotel_bookings",
		cols: []string{
			"id", "version", "created_at", "updated_at",
			"business_id", "status", "guest_name",
			"check_in", "check_out",
		},
	},
	booking.DomainAuditorium: {
		table: "auditorium_bookings",
		cols: []string{
			"id", "version", "created_at", "updated_at",
			"business_id", "status", "guest_name",
			"event_date", "start_time", "end_time",
		},
	},
}

// Repo persists bookings.
type Repo struct {
	txManager *postgres.TxManager
}

func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) domainTable(domain booking.Domain) (string, []string, error) {
	tc, ok := tableCols[domain]
	if !ok {
		return "", nil, apperror.NewValidation("unknown booking domain").
			WithDetail("domain", string(domain))
	}
	return tc.table, tc.cols, nil
}

// Create inserts a booking into its domain's table.
func (r *Repo) Create(ctx context.Context, b *booking.Booking) error {
	table, cols, err := r.domainTable(b.Domain)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(b)
	row := make(map[string]any, len(cols))
	for _, col := range cols {
		if val, ok := data[col]; ok {
			row[col] = val
		}
	}

	sql, args, err := r.builder().Insert(table).SetMap(row).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// GetByID retrieves a booking by its internal ID within one domain.
func (r *Repo) GetByID(ctx context.Context, domain booking.Domain, bookingID id.ID) (*booking.Booking, error) {
	return r.getOne(ctx, domain, squirrel.Eq{"id": bookingID}, bookingID.String())
}

// GetByBusinessID retrieves a booking by its human-facing number within one
// domain.
func (r *Repo) GetByBusinessID(ctx context.Context, domain booking.Domain, businessID string) (*booking.Booking, error) {
	return r.getOne(ctx, domain, squirrel.Eq{"business_id": businessID}, businessID)
}

func (r *Repo) getOne(ctx context.Context, domain booking.Domain, cond squirrel.Eq, ref string) (*booking.Booking, error) {
	table, cols, err := r.domainTable(domain)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.builder().
		Select(cols...).
		From(table).
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b booking.Booking
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(table, ref)
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}

	// The table encodes the domain; the row does not carry it.
	b.Domain = domain
	return &b, nil
}

// UpdateStatus sets the booking status with optimistic locking. A stale
// expectedVersion surfaces as a concurrent modification error.
func (r *Repo) UpdateStatus(ctx context.Context, domain booking.Domain, bookingID id.ID, status booking.Status, expectedVersion int) error {
	table, _, err := r.domainTable(domain)
	if err != nil {
		return err
	}

	sql, args, err := r.builder().
		Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": bookingID}).
		Where(squirrel.Eq{"version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	if result.RowsAffected() == 0 {
		// Either the row is gone or the version moved under us.
		exists, err := r.exists(ctx, table, bookingID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound(table, bookingID.String())
		}
		return apperror.NewConcurrentModification(table, bookingID.String())
	}
	return nil
}

func (r *Repo) exists(ctx context.Context, table string, bookingID id.ID) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(table).
		Where(squirrel.Eq{"id": bookingID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", table, err)
	}
	return true, nil
}
