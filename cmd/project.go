package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type projectCmd struct {
	app        *App
	date       string
	rate       float64
	rates      string
	volatility float64
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "estimate the value of the portfolio at a future date" }
func (*projectCmd) Usage() string {
	return `project -d <date> (-r <rate> | -R <symbol>=<rate>,...) [-v <volatility>]

  Compounds today's holdings at an expected annual return, in percent, up to
  the date. Cash is carried at its current balance. At least one of -r or -R
  is required, symbols missing from -R use -r, which defaults to 0.

Usage Examples:
# 5% a year for every holding, 8% for ABC.
$ pcs project -d 2030-01-01 -r 5 -R ABC=8
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Projection date (YYYY-MM-DD), on or after today")
	f.Float64Var(&c.rate, "r", 0, "Expected annual return in percent")
	f.StringVar(&c.rates, "R", "", "Per symbol annual returns in percent, as SYMBOL=rate separated by commas")
	f.Float64Var(&c.volatility, "v", 0, "Expected annual volatility in percent")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.date == "" || f.NArg() > 0 || !(isSet(f, "r") || isSet(f, "R")) {
		f.Usage()
		return subcommands.ExitUsageError
	}
	until, err := parseDate(c.date)
	if err != nil {
		c.app.errorf("Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	returns, err := parseReturns(c.rate, c.rates)
	if err != nil {
		c.app.errorf("Error parsing returns: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := c.app.Ledger.Project(ctx, until, returns, c.volatility)
	if err != nil {
		c.app.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(renderer.ProjectionMarkdown(p))
	return subcommands.ExitSuccess
}

// parseReturns parses "ABC=8,XYZ=5.5" into per symbol returns.
func parseReturns(def float64, list string) (folio.Returns, error) {
	returns := folio.Rate(def)
	if strings.TrimSpace(list) == "" {
		return returns, nil
	}
	returns.BySymbol = make(map[string]float64)
	for _, item := range strings.Split(list, ",") {
		symbol, rate, ok := strings.Cut(item, "=")
		symbol = strings.TrimSpace(symbol)
		if !ok || symbol == "" {
			return returns, fmt.Errorf("%q is not SYMBOL=rate", item)
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(rate), 64)
		if err != nil {
			return returns, fmt.Errorf("rate of %s: %w", symbol, err)
		}
		returns.BySymbol[symbol] = r
	}
	return returns, nil
}

// isSet reports whether the flag name was given on the command line.
func isSet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
