package folio

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/stretchr/testify/require"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// fakeOracle is an in-memory PriceOracle with the same as-of semantics as the
// remote one.
type fakeOracle struct {
	mu     sync.Mutex
	today  date.Date
	prices map[string]*date.History[Money]
	calls  int
	fail   error
}

func newFakeOracle(today string) *fakeOracle {
	return &fakeOracle{today: date.MustParse(today), prices: make(map[string]*date.History[Money])}
}

// set records the closing price of symbol on day.
func (o *fakeOracle) set(symbol, day string, price float64) *fakeOracle {
	h, ok := o.prices[symbol]
	if !ok {
		h = new(date.History[Money])
		o.prices[symbol] = h
	}
	h.Append(date.MustParse(day), USD(price))
	return o
}

func (o *fakeOracle) Price(_ context.Context, symbol string, on date.Date) (Money, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.fail != nil {
		return Money{}, o.fail
	}
	if on.After(o.today) {
		return Money{}, fmt.Errorf("%s: %w", on, ErrInvalidDate)
	}
	h, ok := o.prices[symbol]
	if !ok {
		return Money{}, fmt.Errorf("%s: %w", symbol, ErrNoPriceAvailable)
	}
	_, p, ok := h.ValueAsOf(on)
	if !ok {
		return Money{}, fmt.Errorf("%s on %s: %w", symbol, on, ErrNoPriceAvailable)
	}
	return p, nil
}

// newTestLedger returns a ledger whose today is fixed.
func newTestLedger(oracle PriceOracle, today string) *Ledger {
	return NewLedger("test", oracle, WithClock(func() date.Date { return date.MustParse(today) }))
}

func day(s string) date.Date { return date.MustParse(s) }

// mustDeposit deposits or fails the test.
func mustDeposit(t *testing.T, l *Ledger, amount float64, on string) {
	t.Helper()
	require.NoError(t, l.Deposit(USD(amount), day(on)))
}
