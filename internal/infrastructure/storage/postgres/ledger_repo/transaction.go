// Package ledger_repo provides the PostgreSQL implementations for the
// financial side of the system: transaction documents with their lines and
// the cashflow ledger.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
	"wisma/internal/domain"
	"wisma/internal/domain/invoice"
	"wisma/internal/infrastructure/storage/postgres"
)

const (
	transactionsTable = "transactions"
	linesTable        = "transaction_lines"
)

var transactionCols = []string{
	"id", "version", "created_at", "updated_at",
	"number", "booking_type", "booking_id",
	"total_amount", "currency", "payment_status", "notes",
}

var lineCols = []string{
	"line_id", "line_no", "name", "quantity", "unit_price", "subtotal",
}

// Compile-time check.
var _ invoice.Repository = (*TransactionRepo)(nil)

// TransactionRepo persists transaction documents and their lines.
type TransactionRepo struct {
	txManager *postgres.TxManager
}

func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the transaction header. Lines are saved separately.
func (r *TransactionRepo) Create(ctx context.Context, t *invoice.Transaction) error {
	data := postgres.StructToMap(t)
	row := make(map[string]any, len(transactionCols))
	for _, col := range transactionCols {
		if val, ok := data[col]; ok {
			row[col] = val
		}
	}

	sql, args, err := builder().Insert(transactionsTable).SetMap(row).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", transactionsTable, err)
	}
	return nil
}

// SaveLines replaces the transaction's lines with the given set.
func (r *TransactionRepo) SaveLines(ctx context.Context, txID id.ID, lines []invoice.Line) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := r.txManager.GetQuerier(ctx)

		delSQL, delArgs, err := builder().
			Delete(linesTable).
			Where(squirrel.Eq{"transaction_id": txID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete lines: %w", err)
		}
		if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}

		if len(lines) == 0 {
			return nil
		}

		ins := builder().
			Insert(linesTable).
			Columns(append([]string{"transaction_id"}, lineCols...)...)
		for _, line := range lines {
			ins = ins.Values(txID, line.LineID, line.LineNo, line.Name,
				line.Quantity, line.UnitPrice, line.Subtotal)
		}

		insSQL, insArgs, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert lines: %w", err)
		}
		if _, err := querier.Exec(ctx, insSQL, insArgs...); err != nil {
			return fmt.Errorf("insert lines: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a transaction with its lines.
func (r *TransactionRepo) GetByID(ctx context.Context, txID id.ID) (*invoice.Transaction, error) {
	sql, args, err := builder().
		Select(transactionCols...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": txID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t invoice.Transaction
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(transactionsTable, txID.String())
		}
		return nil, fmt.Errorf("get %s: %w", transactionsTable, err)
	}

	lines, err := r.loadLines(ctx, txID)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return &t, nil
}

func (r *TransactionRepo) loadLines(ctx context.Context, txID id.ID) ([]invoice.Line, error) {
	sql, args, err := builder().
		Select(lineCols...).
		From(linesTable).
		Where(squirrel.Eq{"transaction_id": txID}).
		OrderBy("line_no ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]invoice.Line, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	return lines, nil
}

// ListByBooking returns transaction headers matching the booking relation.
// Lines are not loaded; callers needing them use GetByID.
func (r *TransactionRepo) ListByBooking(ctx context.Context, bookingType invoice.BookingType, bookingID id.ID) ([]*invoice.Transaction, error) {
	sql, args, err := builder().
		Select(transactionCols...).
		From(transactionsTable).
		Where(squirrel.Eq{"booking_type": bookingType}).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*invoice.Transaction, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by booking: %w", err)
	}
	return items, nil
}

// ListPaid returns one page of paid transaction headers ordered by ID.
func (r *TransactionRepo) ListPaid(ctx context.Context, page domain.Page) ([]*invoice.Transaction, error) {
	q := builder().
		Select(transactionCols...).
		From(transactionsTable).
		Where(squirrel.Eq{"payment_status": invoice.PaymentPaid}).
		OrderBy("id ASC")

	if page.Limit > 0 {
		q = q.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		q = q.Offset(uint64(page.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*invoice.Transaction, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list paid: %w", err)
	}
	return items, nil
}

// Update rewrites the transaction header with optimistic locking. The stored
// version must equal t.Version; the write bumps it.
func (r *TransactionRepo) Update(ctx context.Context, t *invoice.Transaction) error {
	data := postgres.StructToMap(t)
	row := make(map[string]any, len(transactionCols))
	for _, col := range transactionCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			row[col] = val
		}
	}

	sql, args, err := builder().
		Update(transactionsTable).
		SetMap(row).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": t.ID}).
		Where(squirrel.Eq{"version": t.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", transactionsTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(transactionsTable, t.ID.String())
	}
	return nil
}

// Delete removes the transaction and its lines.
func (r *TransactionRepo) Delete(ctx context.Context, txID id.ID) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := r.txManager.GetQuerier(ctx)

		delLines, delLinesArgs, err := builder().
			Delete(linesTable).
			Where(squirrel.Eq{"transaction_id": txID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete lines: %w", err)
		}
		if _, err := querier.Exec(ctx, delLines, delLinesArgs...); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}

		delDoc, delDocArgs, err := builder().
			Delete(transactionsTable).
			Where(squirrel.Eq{"id": txID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}

		result, err := querier.Exec(ctx, delDoc, delDocArgs...)
		if err != nil {
			return fmt.Errorf("delete %s: %w", transactionsTable, err)
		}
		if result.RowsAffected() == 0 {
			return apperror.NewNotFound(transactionsTable, txID.String())
		}
		return nil
	})
}
