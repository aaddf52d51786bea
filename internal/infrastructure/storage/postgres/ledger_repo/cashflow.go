package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wisma/internal/core/apperror"
	"wisma/internal/core/id"
	"wisma/internal/domain"
	"wisma/internal/domain/cashflow"
	"wisma/internal/domain/filter"
	"wisma/internal/infrastructure/storage/postgres"
)

const cashflowTable = "cashflow_entries"

var cashflowCols = []string{
	"id", "version", "created_at", "updated_at",
	"type", "amount", "currency", "description",
	"approval_status", "transaction_date", "invoice_id",
}

var cashflowFilterCols = func() map[string]bool {
	m := make(map[string]bool, len(cashflowCols))
	for _, col := range cashflowCols {
		m[col] = true
	}
	return m
}()

// Compile-time check.
var _ cashflow.Repository = (*CashflowRepo)(nil)

// CashflowRepo persists ledger entries.
type CashflowRepo struct {
	txManager *postgres.TxManager
}

func NewCashflowRepo(txManager *postgres.TxManager) *CashflowRepo {
	return &CashflowRepo{txManager: txManager}
}

// Create inserts a ledger entry.
func (r *CashflowRepo) Create(ctx context.Context, e *cashflow.Entry) error {
	data := postgres.StructToMap(e)
	row := make(map[string]any, len(cashflowCols))
	for _, col := range cashflowCols {
		if val, ok := data[col]; ok {
			row[col] = val
		}
	}

	sql, args, err := builder().Insert(cashflowTable).SetMap(row).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", cashflowTable, err)
	}
	return nil
}

// GetByInvoiceID finds the entry explicitly referencing the invoice.
func (r *CashflowRepo) GetByInvoiceID(ctx context.Context, invoiceID id.ID) (*cashflow.Entry, error) {
	return r.findOne(ctx, filter.Eq("invoice_id", invoiceID), invoiceID.String())
}

// FindByInvoiceNumber finds an entry mentioning the invoice number in its
// description. Legacy rows carry no explicit reference, only text.
func (r *CashflowRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*cashflow.Entry, error) {
	return r.findOne(ctx, filter.ContainsText("description", invoiceNumber), invoiceNumber)
}

func (r *CashflowRepo) findOne(ctx context.Context, cond filter.Item, ref string) (*cashflow.Entry, error) {
	q := builder().
		Select(cashflowCols...).
		From(cashflowTable)

	q, err := postgres.ApplyFilterItems(q, []filter.Item{cond}, cashflowFilterCols)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.OrderBy("created_at ASC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e cashflow.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(cashflowTable, ref)
		}
		return nil, fmt.Errorf("get %s: %w", cashflowTable, err)
	}
	return &e, nil
}

// ListApprovedOut returns one page of approved outgoing entries ordered by ID.
func (r *CashflowRepo) ListApprovedOut(ctx context.Context, page domain.Page) ([]*cashflow.Entry, error) {
	q := builder().
		Select(cashflowCols...).
		From(cashflowTable).
		Where(squirrel.Eq{"type": cashflow.FlowOut}).
		Where(squirrel.Eq{"approval_status": cashflow.ApprovalApproved}).
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

	items := make([]*cashflow.Entry, 0)
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list approved out: %w", err)
	}
	return items, nil
}

// Delete removes an entry outright.
func (r *CashflowRepo) Delete(ctx context.Context, entryID id.ID) error {
	sql, args, err := builder().
		Delete(cashflowTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", cashflowTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(cashflowTable, entryID.String())
	}
	return nil
}
