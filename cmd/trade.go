package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
)

// --- Buy Command ---

type buyCmd struct {
	app      *App
	date     string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares at the market price" }
func (*buyCmd) Usage() string {
	return `buy -q <quantity> [-d <date>] SYMBOL...

  Purchases shares of each symbol at its closing price on the date. The total
  cost is debited from the cash balance, which must cover it.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	dateFlag(f, &c.date, "Transaction date")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares of each symbol")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.trade(ctx, f, c.quantity, c.date, func(symbol string, q folio.Quantity, on date.Date) (folio.Transaction, error) {
		return c.app.Ledger.Buy(ctx, symbol, q, on)
	})
}

// --- Sell Command ---

type sellCmd struct {
	app      *App
	date     string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares at the market price" }
func (*sellCmd) Usage() string {
	return `sell -q <quantity> [-d <date>] SYMBOL...

  Sells shares of each symbol at its closing price on the date. The proceeds
  are credited to the cash balance.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	dateFlag(f, &c.date, "Transaction date")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares of each symbol")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.trade(ctx, f, c.quantity, c.date, func(symbol string, q folio.Quantity, on date.Date) (folio.Transaction, error) {
		return c.app.Ledger.Sell(ctx, symbol, q, on)
	})
}

// tradeFunc appends one trade to the ledger.
type tradeFunc func(symbol string, q folio.Quantity, on date.Date) (folio.Transaction, error)

// trade runs do for every symbol argument, the first failure stops the command.
func (a *App) trade(ctx context.Context, f *flag.FlagSet, quantity int64, day string, do tradeFunc) subcommands.ExitStatus {
	if quantity <= 0 || f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := parseDate(day)
	if err != nil {
		a.errorf("Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if on.IsZero() {
		on = a.Ledger.Today()
	}

	for _, symbol := range f.Args() {
		if err := ctx.Err(); err != nil {
			a.errorf("Error: %v\n", err)
			return subcommands.ExitFailure
		}
		tx, err := do(symbol, folio.Q(quantity), on)
		if err != nil {
			a.errorf("Error: %v\n", err)
			return subcommands.ExitFailure
		}
		a.report(tx)
	}
	return subcommands.ExitSuccess
}
