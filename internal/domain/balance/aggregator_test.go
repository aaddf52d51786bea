package balance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisma/internal/core/id"
	"wisma/internal/core/types"
	"wisma/internal/domain"
	"wisma/internal/domain/cashflow"
	"wisma/internal/domain/invoice"
)

type pagedInvoices struct {
	invoice.Repository
	paid []*invoice.Transaction
	err  error
}

func (p *pagedInvoices) ListPaid(ctx context.Context, page domain.Page) ([]*invoice.Transaction, error) {
	if p.err != nil {
		return nil, p.err
	}
	return slicePage(p.paid, page), nil
}

type pagedCashflow struct {
	cashflow.Repository
	out []*cashflow.Entry
	err error
}

func (p *pagedCashflow) ListApprovedOut(ctx context.Context, page domain.Page) ([]*cashflow.Entry, error) {
	if p.err != nil {
		return nil, p.err
	}
	return slicePage(p.out, page), nil
}

func slicePage[T any](items []T, page domain.Page) []T {
	if page.Offset >= len(items) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

func paidInvoice(currency types.Currency, amount int64) *invoice.Transaction {
	t := invoice.NewTransaction(invoice.BookingTypeRental, id.New(), currency)
	t.TotalAmount = types.NewMoneyFromInt(amount)
	t.PaymentStatus = invoice.PaymentPaid
	return t
}

func approvedOutflow(currency types.Currency, amount int64) *cashflow.Entry {
	e := &cashflow.Entry{
		Type:           cashflow.FlowOut,
		Amount:         types.NewMoneyFromInt(amount),
		Currency:       currency,
		ApprovalStatus: cashflow.ApprovalApproved,
	}
	e.ID = id.New()
	return e
}

func TestComputeBalances_IncomeMinusOutgoing(t *testing.T) {
	agg := NewAggregator(
		&pagedInvoices{paid: []*invoice.Transaction{paidInvoice(types.EGP, 100)}},
		&pagedCashflow{out: []*cashflow.Entry{approvedOutflow(types.EGP, 30)}},
	)

	balances, err := agg.ComputeBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)

	assert.Equal(t, types.EGP, balances[0].Currency)
	assert.True(t, balances[0].Income.Equal(types.NewMoneyFromInt(100)))
	assert.True(t, balances[0].Outgoing.Equal(types.NewMoneyFromInt(30)))
	assert.True(t, balances[0].Net.Equal(types.NewMoneyFromInt(70)))
}

func TestComputeBalances_MultipleCurrenciesSorted(t *testing.T) {
	agg := NewAggregator(
		&pagedInvoices{paid: []*invoice.Transaction{
			paidInvoice(types.USD, 50),
			paidInvoice(types.EGP, 200),
			paidInvoice(types.EGP, 100),
		}},
		&pagedCashflow{out: []*cashflow.Entry{
			approvedOutflow(types.IDR, 1_000_000),
		}},
	)

	balances, err := agg.ComputeBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 3)

	assert.Equal(t, types.EGP, balances[0].Currency)
	assert.True(t, balances[0].Net.Equal(types.NewMoneyFromInt(300)))

	assert.Equal(t, types.IDR, balances[1].Currency)
	assert.True(t, balances[1].Net.Equal(types.NewMoneyFromInt(-1_000_000)))

	assert.Equal(t, types.USD, balances[2].Currency)
	assert.True(t, balances[2].Net.Equal(types.NewMoneyFromInt(50)))
}

func TestComputeBalances_UnrecognizedCurrencySkipped(t *testing.T) {
	agg := NewAggregator(
		&pagedInvoices{paid: []*invoice.Transaction{
			paidInvoice(types.EGP, 100),
			paidInvoice(types.Currency("XQZ"), 999),
		}},
		&pagedCashflow{out: []*cashflow.Entry{
			approvedOutflow(types.Currency("XQZ"), 999),
		}},
	)

	balances, err := agg.ComputeBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, types.EGP, balances[0].Currency)
}

func TestComputeBalances_WalksAllPages(t *testing.T) {
	paid := make([]*invoice.Transaction, 0, 7)
	for i := 0; i < 7; i++ {
		paid = append(paid, paidInvoice(types.EGP, 10))
	}

	agg := NewAggregator(&pagedInvoices{paid: paid}, &pagedCashflow{})
	agg.pageSize = 3

	balances, err := agg.ComputeBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Income.Equal(types.NewMoneyFromInt(70)))
}

func TestComputeBalances_ScanErrorPropagates(t *testing.T) {
	agg := NewAggregator(
		&pagedInvoices{err: assert.AnError},
		&pagedCashflow{},
	)

	_, err := agg.ComputeBalances(context.Background())
	assert.Error(t, err)
}

func TestComputeBalances_EmptyStores(t *testing.T) {
	agg := NewAggregator(&pagedInvoices{}, &pagedCashflow{})

	balances, err := agg.ComputeBalances(context.Background())
	require.NoError(t, err)
	assert.Empty(t, balances)
}
