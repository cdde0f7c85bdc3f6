package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// --- Deposit Command ---

type depositCmd struct {
	app    *App
	date   string
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into the portfolio" }
func (*depositCmd) Usage() string {
	return `deposit -a <amount> [-d <date>]

  Adds cash to the portfolio on a date, today by default.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	dateFlag(f, &c.date, "Transaction date")
	f.StringVar(&c.amount, "a", "", "Amount to deposit, in the portfolio currency")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.cash(f, c.amount, c.date, folio.CmdDeposit)
}

// --- Withdraw Command ---

type withdrawCmd struct {
	app    *App
	date   string
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from the portfolio" }
func (*withdrawCmd) Usage() string {
	return `withdraw -a <amount> [-d <date>]

  Takes cash out of the portfolio on a date, today by default. The cash
  balance must cover the amount.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	dateFlag(f, &c.date, "Transaction date")
	f.StringVar(&c.amount, "a", "", "Amount to withdraw, in the portfolio currency")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.cash(f, c.amount, c.date, folio.CmdWithdraw)
}

// cash executes a deposit or a withdrawal.
func (a *App) cash(f *flag.FlagSet, amount, day string, cmd folio.CommandType) subcommands.ExitStatus {
	if amount == "" || f.NArg() > 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	m, err := folio.ParseMoney(amount, a.Ledger.Currency())
	if err != nil {
		a.errorf("Error parsing amount: %v\n", err)
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

	var tx folio.Transaction
	if cmd == folio.CmdDeposit {
		tx = folio.NewDeposit(on, m)
		err = a.Ledger.Deposit(m, on)
	} else {
		tx = folio.NewWithdraw(on, m)
		err = a.Ledger.Withdraw(m, on)
	}
	if err != nil {
		a.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	a.report(tx)
	return subcommands.ExitSuccess
}

// report prints an appended transaction.
func (a *App) report(tx folio.Transaction) {
	a.printMarkdown(fmt.Sprintf("- %s: %s\n", tx.When(), renderer.Transaction(tx)))
}
