package folio

import (
	"context"
	"maps"
	"slices"

	"github.com/etnz/folio/date"
	"golang.org/x/sync/errgroup"
)

// Line is the valuation of one position.
type Line struct {
	Symbol   string
	Quantity Quantity
	Price    Money // unit price on the valuation date
	Value    Money // Price * Quantity
}

// Appraisal is the valuation of a portfolio on a date.
type Appraisal struct {
	Date  date.Date
	Cash  Money
	Lines []Line // sorted by symbol
}

// Securities returns the market value of all lines.
func (a Appraisal) Securities() Money {
	total := M(0, a.Cash.Currency())
	for _, line := range a.Lines {
		total = total.Add(line.Value)
	}
	return total
}

// Total returns cash plus securities.
func (a Appraisal) Total() Money { return a.Cash.Add(a.Securities()) }

// Appraise values the cash balance and every holding on a date. A zero date
// means today.
func (l *Ledger) Appraise(ctx context.Context, on date.Date) (Appraisal, error) {
	l.mu.Lock()
	on, err := l.pastOrToday(on)
	if err != nil {
		l.mu.Unlock()
		return Appraisal{}, err
	}
	cash, holdings := l.balance(on), l.holdings(on)
	l.mu.Unlock()

	lines, err := l.lines(ctx, holdings, on)
	if err != nil {
		return Appraisal{}, err
	}
	return Appraisal{Date: on, Cash: cash, Lines: lines}, nil
}

// TotalValue computes the cash balance plus the market value of every holding
// on a date. A zero date means today.
func (l *Ledger) TotalValue(ctx context.Context, on date.Date) (Money, error) {
	a, err := l.Appraise(ctx, on)
	if err != nil {
		return Money{}, err
	}
	return a.Total(), nil
}

// ValueOf computes the market value of the given securities on a date. A zero
// date means today. Symbols not held contribute nothing and are not priced.
func (l *Ledger) ValueOf(ctx context.Context, symbols []string, on date.Date) (Money, error) {
	l.mu.Lock()
	on, err := l.pastOrToday(on)
	if err != nil {
		l.mu.Unlock()
		return Money{}, err
	}
	all := l.holdings(on)
	l.mu.Unlock()

	holdings := make(map[string]Quantity)
	for _, s := range symbols {
		if q, ok := all[s]; ok {
			holdings[s] = q
		}
	}
	lines, err := l.lines(ctx, holdings, on)
	if err != nil {
		return Money{}, err
	}
	return Appraisal{Cash: M(0, l.currency), Lines: lines}.Securities(), nil
}

// lines prices each holding on a date.
// Symbols are priced concurrently, the first failure cancels the others.
func (l *Ledger) lines(ctx context.Context, holdings map[string]Quantity, on date.Date) ([]Line, error) {
	symbols := slices.Sorted(maps.Keys(holdings))
	lines := make([]Line, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			price, err := l.price(ctx, symbol, on)
			if err != nil {
				return err
			}
			q := holdings[symbol]
			lines[i] = Line{Symbol: symbol, Quantity: q, Price: price, Value: price.Mul(q)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}
