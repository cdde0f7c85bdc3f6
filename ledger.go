package folio

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
)

// Ledger represents a named portfolio backed by an append-only list of transactions.
//
// Transactions are kept in insertion order, which is not necessarily the
// chronological order: every view filters the log by date instead.
//
// A Ledger is safe for concurrent use, mutations are serialized.
type Ledger struct {
	mu           sync.Mutex
	name         string
	currency     string
	oracle       PriceOracle
	today        func() date.Date
	log          zerolog.Logger
	transactions []Transaction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCurrency sets the currency of the ledger. Defaults to USD.
func WithCurrency(code string) Option { return func(l *Ledger) { l.currency = code } }

// WithLogger sets the logger used to report appended and rejected transactions.
func WithLogger(log zerolog.Logger) Option { return func(l *Ledger) { l.log = log } }

// WithClock replaces date.Today as the source of the current date.
func WithClock(today func() date.Date) Option { return func(l *Ledger) { l.today = today } }

// NewLedger creates an empty ledger priced by oracle.
func NewLedger(name string, oracle PriceOracle, opts ...Option) *Ledger {
	l := &Ledger{
		name:         name,
		currency:     "USD",
		oracle:       oracle,
		today:        date.Today,
		log:          zerolog.Nop(),
		transactions: make([]Transaction, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With().Str("component", "ledger").Str("portfolio", name).Logger()
	return l
}

// Name returns the portfolio name.
func (l *Ledger) Name() string { return l.name }

// Currency returns the currency of every amount in the ledger.
func (l *Ledger) Currency() string { return l.currency }

// Today returns the current date according to the ledger's clock.
func (l *Ledger) Today() date.Date { return l.today() }

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.transactions)
}

// Transactions returns an iterator that yields each transaction in its original order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	l.mu.Lock()
	txs := slices.Clone(l.transactions)
	l.mu.Unlock()
	return func(yield func(int, Transaction) bool) {
		for i, tx := range txs {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Deposit adds amount of cash on a date. A zero date means today.
func (l *Ledger) Deposit(amount Money, on date.Date) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	on, err := l.pastOrToday(on)
	if err == nil {
		amount, err = l.checkAmount(amount)
	}
	if err != nil {
		return l.reject(CmdDeposit, on, err)
	}
	l.append(NewDeposit(on, amount))
	return nil
}

// Withdraw takes amount of cash out on a date. A zero date means today.
//
// The cash balance must cover the amount on that date and on every later date
// already recorded.
func (l *Ledger) Withdraw(amount Money, on date.Date) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	on, err := l.pastOrToday(on)
	if err == nil {
		amount, err = l.checkAmount(amount)
	}
	if err == nil {
		if cash := l.availableCash(on); cash.LessThan(amount) {
			err = fmt.Errorf("cannot withdraw %s, available cash is %s: %w", amount, cash, ErrInsufficientFunds)
		}
	}
	if err != nil {
		return l.reject(CmdWithdraw, on, err)
	}
	l.append(NewWithdraw(on, amount))
	return nil
}

// Buy purchases quantity shares of symbol at the oracle price on a date. A zero
// date means today.
//
// The cost (unit price times quantity) is debited from cash, it must be
// covered by the cash balance on that date and on every later date already
// recorded.
func (l *Ledger) Buy(ctx context.Context, symbol string, quantity Quantity, on date.Date) (Buy, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	on, symbol, err := l.checkTrade(symbol, quantity, on)
	if err != nil {
		return Buy{}, l.reject(CmdBuy, on, err)
	}
	price, err := l.price(ctx, symbol, on)
	if err != nil {
		return Buy{}, l.reject(CmdBuy, on, err)
	}
	tx := NewBuy(on, symbol, quantity, price)
	if cash := l.availableCash(on); cash.LessThan(tx.Amount()) {
		err = fmt.Errorf("cannot buy %s %s for %s, available cash is %s: %w", quantity, symbol, tx.Amount(), cash, ErrInsufficientFunds)
		return Buy{}, l.reject(CmdBuy, on, err)
	}
	l.append(tx)
	return tx, nil
}

// Sell sells quantity shares of symbol at the oracle price on a date. A zero
// date means today.
//
// The position must hold the quantity on that date and on every later date
// already recorded. The proceeds are credited to cash.
func (l *Ledger) Sell(ctx context.Context, symbol string, quantity Quantity, on date.Date) (Sell, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	on, symbol, err := l.checkTrade(symbol, quantity, on)
	if err != nil {
		return Sell{}, l.reject(CmdSell, on, err)
	}
	if held := l.availableShares(symbol, on); held.LessThan(quantity) {
		err = fmt.Errorf("cannot sell %s %s, position is %s: %w", quantity, symbol, held, ErrInsufficientQuantity)
		return Sell{}, l.reject(CmdSell, on, err)
	}
	price, err := l.price(ctx, symbol, on)
	if err != nil {
		return Sell{}, l.reject(CmdSell, on, err)
	}
	tx := NewSell(on, symbol, quantity, price)
	l.append(tx)
	return tx, nil
}

// Balance computes the cash balance on a date. A zero date means today.
func (l *Ledger) Balance(on date.Date) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	on, err := l.pastOrToday(on)
	if err != nil {
		return Money{}, err
	}
	return l.balance(on), nil
}

// Position computes the quantity of symbol held on a date.
func (l *Ledger) Position(symbol string, on date.Date) Quantity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position(symbol, on)
}

// Holdings computes the quantity held per symbol on a date. A zero date means
// today. Closed positions are omitted.
func (l *Ledger) Holdings(on date.Date) (map[string]Quantity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	on, err := l.pastOrToday(on)
	if err != nil {
		return nil, err
	}
	return l.holdings(on), nil
}

// Symbols returns the sorted symbols ever traded in the ledger.
func (l *Ledger) Symbols() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	symbols := make(map[string]struct{})
	for _, tx := range l.transactions {
		if s := symbolOf(tx); s != "" {
			symbols[s] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(symbols))
}

// balance sums the cash flows of transactions dated on or before on.
func (l *Ledger) balance(on date.Date) Money {
	balance := M(0, l.currency)
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			// The ledger is not sorted, keep scanning.
			continue
		}
		balance = balance.Add(cashFlow(tx))
	}
	return balance
}

func (l *Ledger) position(symbol string, on date.Date) Quantity {
	var q Quantity
	for _, tx := range l.transactions {
		if !tx.When().After(on) {
			q = q.Add(shareFlow(tx, symbol))
		}
	}
	return q
}

func (l *Ledger) holdings(on date.Date) map[string]Quantity {
	holdings := make(map[string]Quantity)
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			continue
		}
		if s := symbolOf(tx); s != "" {
			holdings[s] = holdings[s].Add(shareFlow(tx, s))
		}
	}
	for s, q := range holdings {
		if q.IsZero() {
			delete(holdings, s)
		}
	}
	return holdings
}

// checkpoints returns on and every later transaction date accepted by keep.
// Those are the only dates where a running total can change after on.
func (l *Ledger) checkpoints(on date.Date, keep func(Transaction) bool) []date.Date {
	days := []date.Date{on}
	for _, tx := range l.transactions {
		if tx.When().After(on) && keep(tx) {
			days = append(days, tx.When())
		}
	}
	return days
}

// availableCash returns the lowest cash balance from on onward, that is the
// amount that can be spent on that date without overdrawing any later date.
func (l *Ledger) availableCash(on date.Date) Money {
	days := l.checkpoints(on, func(Transaction) bool { return true })
	cash := l.balance(on)
	for _, d := range days[1:] {
		if b := l.balance(d); b.LessThan(cash) {
			cash = b
		}
	}
	return cash
}

// availableShares returns the lowest position in symbol from on onward.
func (l *Ledger) availableShares(symbol string, on date.Date) Quantity {
	days := l.checkpoints(on, func(tx Transaction) bool { return symbolOf(tx) == symbol })
	held := l.position(symbol, on)
	for _, d := range days[1:] {
		held = held.min(l.position(symbol, d))
	}
	return held
}

// pastOrToday resolves the zero date to today and rejects dates after today.
func (l *Ledger) pastOrToday(on date.Date) (date.Date, error) {
	today := l.today()
	if on.IsZero() {
		return today, nil
	}
	if on.After(today) {
		return on, fmt.Errorf("%s is after today %s: %w", on, today, ErrInvalidDate)
	}
	return on, nil
}

// checkAmount validates a cash amount and sets its currency if missing.
func (l *Ledger) checkAmount(amount Money) (Money, error) {
	amount, err := l.inCurrency(amount)
	if err != nil {
		return amount, err
	}
	if !amount.IsPositive() {
		return amount, fmt.Errorf("amount must be positive, got %s: %w", amount, ErrInvalidAmount)
	}
	return amount, nil
}

func (l *Ledger) checkTrade(symbol string, quantity Quantity, on date.Date) (date.Date, string, error) {
	on, err := l.pastOrToday(on)
	if err != nil {
		return on, symbol, err
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return on, symbol, fmt.Errorf("symbol is missing: %w", ErrInvalidSymbol)
	}
	if !quantity.IsPositive() || !quantity.IsInteger() {
		return on, symbol, fmt.Errorf("quantity must be a positive integer, got %s: %w", quantity, ErrInvalidQuantity)
	}
	return on, symbol, nil
}

func (l *Ledger) inCurrency(m Money) (Money, error) {
	switch m.Currency() {
	case l.currency:
		return m, nil
	case "":
		return m.InCurrency(l.currency), nil
	default:
		return m, fmt.Errorf("%s in a %s ledger: %w", m, l.currency, ErrCurrencyMismatch)
	}
}

// price asks the oracle for the price of symbol and checks its currency.
func (l *Ledger) price(ctx context.Context, symbol string, on date.Date) (Money, error) {
	p, err := l.oracle.Price(ctx, symbol, on)
	if err != nil {
		return Money{}, fmt.Errorf("cannot price %s on %s: %w", symbol, on, err)
	}
	return l.inCurrency(p)
}

func (l *Ledger) append(tx Transaction) {
	l.transactions = append(l.transactions, tx)
	l.log.Info().Str("command", string(tx.What())).Stringer("date", tx.When()).Stringer("tx", tx).Msg("append")
}

// reject logs a refused operation and returns err with its context.
func (l *Ledger) reject(cmd CommandType, on date.Date, err error) error {
	l.log.Debug().Err(err).Str("command", string(cmd)).Stringer("date", on).Msg("reject")
	return fmt.Errorf("invalid %s transaction on %s: %w", cmd, on, err)
}
