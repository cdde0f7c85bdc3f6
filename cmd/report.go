package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// --- List Command ---

type listCmd struct {
	app  *App
	date string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the quantity held per symbol" }
func (*listCmd) Usage() string {
	return `list [-d <date>]

  Displays the holdings on a date, closed positions are omitted.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) { dateFlag(f, &c.date, "Holdings date") }

func (c *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		c.app.errorf("Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if on.IsZero() {
		on = c.app.Ledger.Today()
	}
	holdings, err := c.app.Ledger.Holdings(on)
	if err != nil {
		c.app.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(renderer.HoldingsMarkdown(on, holdings))
	return subcommands.ExitSuccess
}

// --- Balance Command ---

type balanceCmd struct {
	app  *App
	date string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the cash balance" }
func (*balanceCmd) Usage() string {
	return `balance [-d <date>]

  Displays the cash balance on a date: deposits and sales minus withdrawals
  and purchases.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) { dateFlag(f, &c.date, "Balance date") }

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		c.app.errorf("Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if on.IsZero() {
		on = c.app.Ledger.Today()
	}
	cash, err := c.app.Ledger.Balance(on)
	if err != nil {
		c.app.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(renderer.BalanceMarkdown(on, cash))
	return subcommands.ExitSuccess
}

// --- Value Command ---

type valueCmd struct {
	app  *App
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value the portfolio at market prices" }
func (*valueCmd) Usage() string {
	return `value [-d <date>] [SYMBOL...]

  Without symbols, displays every holding at its closing price on the date,
  the cash balance and the total value of the portfolio.
  With symbols, displays the market value of those securities only.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) { dateFlag(f, &c.date, "Valuation date") }

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		c.app.errorf("Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if on.IsZero() {
		on = c.app.Ledger.Today()
	}

	if symbols := f.Args(); len(symbols) > 0 {
		value, err := c.app.Ledger.ValueOf(ctx, symbols, on)
		if err != nil {
			c.app.errorf("Error: %v\n", err)
			return subcommands.ExitFailure
		}
		c.app.printMarkdown(renderer.ValueMarkdown(on, symbols, value))
		return subcommands.ExitSuccess
	}

	appraisal, err := c.app.Ledger.Appraise(ctx, on)
	if err != nil {
		c.app.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(renderer.AppraisalMarkdown(appraisal))
	return subcommands.ExitSuccess
}

// --- Tx Command ---

type txCmd struct {
	app *App
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list all transactions in the ledger" }
func (*txCmd) Usage() string {
	return `tx

  Lists the transactions of the session in the order they were recorded.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.app.printMarkdown(renderer.TransactionsMarkdown(c.app.Ledger.Name(), c.app.Ledger.Transactions()))
	return subcommands.ExitSuccess
}
