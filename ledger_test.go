package folio

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMoney(t *testing.T, want float64, got Money) {
	t.Helper()
	assert.True(t, USD(want).Equal(got), "got %s, want %v", got, want)
}

// quantities turns holdings into comparable strings.
func quantities(h map[string]Quantity) map[string]string {
	m := make(map[string]string, len(h))
	for s, q := range h {
		m[s] = q.String()
	}
	return m
}

func TestLedger_BuyThenSell(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle("2024-06-30").
		set("ABC", "2024-01-02", 50).
		set("ABC", "2024-01-03", 60)
	l := newTestLedger(oracle, "2024-06-30")

	mustDeposit(t, l, 1000, "2024-01-01")

	buy, err := l.Buy(ctx, "ABC", Q(5), day("2024-01-02"))
	require.NoError(t, err)
	assertMoney(t, 50, buy.UnitPrice)
	assertMoney(t, 250, buy.Amount())

	balance, err := l.Balance(day("2024-01-02"))
	require.NoError(t, err)
	assertMoney(t, 750, balance)

	holdings, err := l.Holdings(day("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ABC": "5"}, quantities(holdings))

	sell, err := l.Sell(ctx, "ABC", Q(5), day("2024-01-03"))
	require.NoError(t, err)
	assertMoney(t, 300, sell.Amount())

	balance, err = l.Balance(day("2024-01-03"))
	require.NoError(t, err)
	assertMoney(t, 1050, balance)

	holdings, err = l.Holdings(day("2024-01-03"))
	require.NoError(t, err)
	assert.Empty(t, holdings)

	// A sell is a single transaction, no synthetic deposit.
	assert.Equal(t, 3, l.Len())
}

func TestLedger_BuyInsufficientFunds(t *testing.T) {
	oracle := newFakeOracle("2024-06-30").set("XYZ", "2024-01-01", 120)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")

	_, err := l.Buy(context.Background(), "XYZ", Q(10), day("2024-02-01"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1, l.Len())

	// Exactly the balance is fine.
	oracle.set("XYZ", "2024-01-01", 100)
	_, err = l.Buy(context.Background(), "XYZ", Q(10), day("2024-02-01"))
	require.NoError(t, err)
	balance, err := l.Balance(day("2024-02-01"))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestLedger_SellInsufficientQuantity(t *testing.T) {
	oracle := newFakeOracle("2024-06-30").set("ABC", "2024-01-01", 10)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")

	_, err := l.Sell(context.Background(), "ABC", Q(3), day("2024-01-05"))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Equal(t, 0, oracle.calls, "quantity is checked before pricing")

	_, err = l.Buy(context.Background(), "ABC", Q(2), day("2024-01-05"))
	require.NoError(t, err)
	_, err = l.Sell(context.Background(), "ABC", Q(3), day("2024-01-05"))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	// Shares bought later are not available earlier.
	_, err = l.Sell(context.Background(), "ABC", Q(1), day("2024-01-04"))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
	assert.Equal(t, 2, l.Len())
}

func TestLedger_FutureDates(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle("2024-06-30").set("ABC", "2024-01-01", 10)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")
	_, err := l.Buy(ctx, "ABC", Q(1), day("2024-01-01"))
	require.NoError(t, err)

	future := day("2024-07-01")
	testCases := []struct {
		name string
		op   func() error
	}{
		{"deposit", func() error { return l.Deposit(USD(1), future) }},
		{"withdraw", func() error { return l.Withdraw(USD(1), future) }},
		{"buy", func() error { _, err := l.Buy(ctx, "ABC", Q(1), future); return err }},
		{"sell", func() error { _, err := l.Sell(ctx, "ABC", Q(1), future); return err }},
		{"balance", func() error { _, err := l.Balance(future); return err }},
		{"holdings", func() error { _, err := l.Holdings(future); return err }},
		{"total value", func() error { _, err := l.TotalValue(ctx, future); return err }},
		{"value of", func() error { _, err := l.ValueOf(ctx, []string{"ABC"}, future); return err }},
		{"projection in the past", func() error {
			_, err := l.ProjectedValue(ctx, day("2024-06-29"), Rate(5), 0)
			return err
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.op(), ErrInvalidDate)
		})
	}
	assert.Equal(t, 2, l.Len())
}

func TestLedger_ZeroDateIsToday(t *testing.T) {
	oracle := newFakeOracle("2024-06-30").set("ABC", "2024-06-28", 10)
	l := newTestLedger(oracle, "2024-06-30")

	require.NoError(t, l.Deposit(USD(100), day("2024-06-30")))
	require.NoError(t, l.Deposit(USD(50), date.Date{}))
	buy, err := l.Buy(context.Background(), "ABC", Q(2), date.Date{})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", buy.When().String())

	balance, err := l.Balance(date.Date{})
	require.NoError(t, err)
	assertMoney(t, 130, balance)
}

func TestLedger_BalanceIgnoresAppendOrder(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle("2024-12-31").
		set("ABC", "2024-01-01", 10).
		set("ABC", "2024-06-01", 20)
	l := newTestLedger(oracle, "2024-12-31")

	// Appended out of chronological order.
	mustDeposit(t, l, 500, "2024-06-01")
	mustDeposit(t, l, 1000, "2024-01-01")
	_, err := l.Buy(ctx, "ABC", Q(10), day("2024-03-01")) // 100
	require.NoError(t, err)
	_, err = l.Sell(ctx, "ABC", Q(4), day("2024-07-01")) // +80
	require.NoError(t, err)
	require.NoError(t, l.Withdraw(USD(30), day("2024-02-01")))

	testCases := []struct {
		on   string
		want float64
	}{
		{"2023-12-31", 0},
		{"2024-01-01", 1000},
		{"2024-02-01", 970},
		{"2024-03-01", 870},
		{"2024-06-01", 1370},
		{"2024-07-01", 1450},
		{"2024-12-31", 1450},
	}
	for _, tc := range testCases {
		t.Run(tc.on, func(t *testing.T) {
			got, err := l.Balance(day(tc.on))
			require.NoError(t, err)
			assertMoney(t, tc.want, got)
		})
	}
}

func TestLedger_Position(t *testing.T) {
	l := NewLedger("test", nil)
	l.transactions = []Transaction{
		NewBuy(day("2025-02-10"), "AAPL", Q(10), USD(155)),
		NewBuy(day("2025-01-10"), "AAPL", Q(100), USD(150)),
		NewBuy(day("2025-01-15"), "GOOG", Q(50), USD(2800)),
		NewSell(day("2025-02-01"), "AAPL", Q(25), USD(160)),
		NewDeposit(day("2025-02-05"), USD(10000)), // Should be ignored
		NewSell(day("2025-03-01"), "GOOG", Q(50), USD(2900)),
	}

	testCases := []struct {
		name   string
		ticker string
		date   string
		want   string
	}{
		{"Before any transactions", "AAPL", "2025-01-09", "0"},
		{"On the day of the first buy", "AAPL", "2025-01-10", "100"},
		{"On the day of the sell", "AAPL", "2025-02-01", "75"},
		{"On the day of the second buy", "AAPL", "2025-02-10", "85"},
		{"Final position for AAPL", "AAPL", "2025-04-01", "85"},
		{"GOOG position after buy", "GOOG", "2025-01-20", "50"},
		{"GOOG position after selling all", "GOOG", "2025-04-01", "0"},
		{"Position for a ticker with no transactions", "MSFT", "2025-04-01", "0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := l.Position(tc.ticker, day(tc.date))
			assert.Equal(t, tc.want, got.String(), "Position(%q, %s)", tc.ticker, tc.date)
		})
	}

	holdings := l.holdings(day("2025-04-01"))
	assert.Equal(t, map[string]string{"AAPL": "85"}, quantities(holdings))
	assert.Equal(t, []string{"AAPL", "GOOG"}, l.Symbols())
}

func TestLedger_RoundTripKeepsHoldings(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle("2024-06-30").
		set("ABC", "2024-01-01", 10).
		set("XYZ", "2024-01-01", 7)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")
	_, err := l.Buy(ctx, "XYZ", Q(3), day("2024-01-01"))
	require.NoError(t, err)

	before, err := l.Holdings(day("2024-02-01"))
	require.NoError(t, err)

	_, err = l.Buy(ctx, "ABC", Q(4), day("2024-02-01"))
	require.NoError(t, err)
	_, err = l.Sell(ctx, "ABC", Q(4), day("2024-02-01"))
	require.NoError(t, err)

	after, err := l.Holdings(day("2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, quantities(before), quantities(after))
}

func TestLedger_BackdatedTradesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle("2024-06-30").set("ABC", "2024-01-01", 100)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")

	_, err := l.Buy(ctx, "ABC", Q(9), day("2024-01-10"))
	require.NoError(t, err)

	// On 2024-01-05 there is 1000 cash, but spending it would overdraw 2024-01-10.
	_, err = l.Buy(ctx, "ABC", Q(5), day("2024-01-05"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	err = l.Withdraw(USD(500), day("2024-01-05"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = l.Sell(ctx, "ABC", Q(9), day("2024-01-20"))
	require.NoError(t, err)
	// 9 shares are held on 2024-01-15 but they are all sold on 2024-01-20.
	_, err = l.Sell(ctx, "ABC", Q(1), day("2024-01-15"))
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	for _, on := range []string{"2024-01-01", "2024-01-05", "2024-01-10", "2024-01-15", "2024-01-20"} {
		balance, err := l.Balance(day(on))
		require.NoError(t, err)
		assert.False(t, balance.IsNegative(), "balance on %s is %s", on, balance)
		holdings, err := l.Holdings(day(on))
		require.NoError(t, err)
		for s, q := range holdings {
			assert.False(t, q.IsNegative(), "%s on %s is %s", s, on, q)
		}
	}
}

func TestLedger_InvalidInputs(t *testing.T) {
	ctx := context.Background()
	oracle := newFakeOracle("2024-06-30").set("ABC", "2024-01-01", 10)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")

	testCases := []struct {
		name string
		op   func() error
		want error
	}{
		{"zero deposit", func() error { return l.Deposit(USD(0), day("2024-01-01")) }, ErrInvalidAmount},
		{"negative deposit", func() error { return l.Deposit(USD(-10), day("2024-01-01")) }, ErrInvalidAmount},
		{"negative withdraw", func() error { return l.Withdraw(USD(-10), day("2024-01-01")) }, ErrInvalidAmount},
		{"foreign currency", func() error { return l.Deposit(M(10, "EUR"), day("2024-01-01")) }, ErrCurrencyMismatch},
		{"withdraw too much", func() error { return l.Withdraw(USD(1000.01), day("2024-01-01")) }, ErrInsufficientFunds},
		{"zero quantity", func() error { _, err := l.Buy(ctx, "ABC", Q(0), day("2024-01-01")); return err }, ErrInvalidQuantity},
		{"negative quantity", func() error { _, err := l.Sell(ctx, "ABC", Q(-1), day("2024-01-01")); return err }, ErrInvalidQuantity},
		{"fractional quantity", func() error { _, err := l.Buy(ctx, "ABC", Q(1.5), day("2024-01-01")); return err }, ErrInvalidQuantity},
		{"missing symbol", func() error { _, err := l.Buy(ctx, " ", Q(1), day("2024-01-01")); return err }, ErrInvalidSymbol},
		{"unknown symbol", func() error { _, err := l.Buy(ctx, "NOPE", Q(1), day("2024-01-01")); return err }, ErrNoPriceAvailable},
		{"price before history", func() error { _, err := l.Buy(ctx, "ABC", Q(1), day("2023-12-31")); return err }, ErrNoPriceAvailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.op(), tc.want)
		})
	}
	assert.Equal(t, 1, l.Len(), "rejected operations must not change the ledger")
}

func TestLedger_OracleFailureLeavesLedgerUnchanged(t *testing.T) {
	oracle := newFakeOracle("2024-06-30")
	oracle.fail = errors.Join(errors.New("connection refused"), ErrServiceError)
	l := newTestLedger(oracle, "2024-06-30")
	mustDeposit(t, l, 1000, "2024-01-01")

	_, err := l.Buy(context.Background(), "ABC", Q(1), day("2024-01-02"))
	assert.ErrorIs(t, err, ErrServiceError)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_TransactionsInInsertionOrder(t *testing.T) {
	l := newTestLedger(newFakeOracle("2024-06-30"), "2024-06-30")
	mustDeposit(t, l, 10, "2024-03-01")
	mustDeposit(t, l, 20, "2024-01-01")
	require.NoError(t, l.Withdraw(USD(5), day("2024-02-01")))

	var got []string
	for _, tx := range l.Transactions() {
		got = append(got, tx.String())
	}
	assert.Equal(t, []string{
		"2024-03-01 deposit $10.00",
		"2024-01-01 deposit $20.00",
		"2024-02-01 withdraw $5.00",
	}, got)
}
