package balance

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"wisma/internal/core/apperror"
	"wisma/internal/core/types"
	"wisma/internal/domain"
	"wisma/internal/domain/cashflow"
	"wisma/internal/domain/invoice"
)

// Balance is the net position for one currency: paid invoice income minus
// approved outgoing cashflow.
type Balance struct {
	Currency types.Currency `json:"currency"`
	Income   types.Money    `json:"income"`
	Outgoing types.Money    `json:"outgoing"`
	Net      types.Money    `json:"net"`
}

// Aggregator computes per-currency balances from the invoice and cashflow
// stores.
type Aggregator struct {
	invoices invoice.Repository
	cashflow cashflow.Repository
	pageSize int
}

func NewAggregator(invoices invoice.Repository, cashflowRepo cashflow.Repository) *Aggregator {
	return &Aggregator{
		invoices: invoices,
		cashflow: cashflowRepo,
		pageSize: domain.DefaultPage().Limit,
	}
}

// ComputeBalances scans paid invoices and approved outgoing cashflow entries
// and returns one Balance per recognized currency, ordered by currency code.
// The two scans run concurrently; sums are merged only after both finish.
// Amounts in unrecognized currencies are skipped.
func (a *Aggregator) ComputeBalances(ctx context.Context) ([]Balance, error) {
	var (
		income   map[types.Currency]types.Money
		outgoing map[types.Currency]types.Money
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		income, err = a.sumPaidInvoices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		outgoing, err = a.sumApprovedOutflows(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(income, outgoing), nil
}

func (a *Aggregator) sumPaidInvoices(ctx context.Context) (map[types.Currency]types.Money, error) {
	sums := make(map[types.Currency]types.Money)

	page := domain.Page{Limit: a.pageSize}
	for {
		batch, err := a.invoices.ListPaid(ctx, page)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("list paid invoices: %w", err))
		}

		for _, t := range batch {
			addAmount(sums, t.Currency, t.TotalAmount)
		}

		if len(batch) < page.Limit {
			return sums, nil
		}
		page = page.Next()
	}
}

func (a *Aggregator) sumApprovedOutflows(ctx context.Context) (map[types.Currency]types.Money, error) {
	sums := make(map[types.Currency]types.Money)

	page := domain.Page{Limit: a.pageSize}
	for {
		batch, err := a.cashflow.ListApprovedOut(ctx, page)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("list approved outflows: %w", err))
		}

		for _, e := range batch {
			addAmount(sums, e.Currency, e.Amount)
		}

		if len(batch) < page.Limit {
			return sums, nil
		}
		page = page.Next()
	}
}

func addAmount(sums map[types.Currency]types.Money, currency types.Currency, amount types.Money) {
	if !currency.Recognized() {
		return
	}
	current, ok := sums[currency]
	if !ok {
		current = types.Zero()
	}
	sums[currency] = current.Add(amount)
}

func merge(income, outgoing map[types.Currency]types.Money) []Balance {
	currencies := make(map[types.Currency]struct{}, len(income)+len(outgoing))
	for c := range income {
		currencies[c] = struct{}{}
	}
	for c := range outgoing {
		currencies[c] = struct{}{}
	}

	balances := make([]Balance, 0, len(currencies))
	for c := range currencies {
		in, ok := income[c]
		if !ok {
			in = types.Zero()
		}
		out, ok := outgoing[c]
		if !ok {
			out = types.Zero()
		}
		balances = append(balances, Balance{
			Currency: c,
			Income:   in,
			Outgoing: out,
			Net:      in.Sub(out),
		})
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Currency < balances[j].Currency
	})
	return balances
}
