// Package cmd implements the CLI application to manage a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/google/subcommands"
)

// App holds what the subcommands share: the ledger of the session and the
// streams they read from and write to.
type App struct {
	Ledger *folio.Ledger
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Pretty bool // render markdown for a terminal
}

// NewApp returns an App on the standard streams.
func NewApp(ledger *folio.Ledger) *App {
	return &App{Ledger: ledger, In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func (a *App) Register(c *subcommands.Commander) {
	for group, cmds := range a.groups() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
	c.Register(&shellCmd{app: a}, "")
	c.Register(&topicCmd{app: a}, "")
}

// groups returns the commands that operate on the ledger, by group.
func (a *App) groups() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"transactions": {
			&depositCmd{app: a},
			&withdrawCmd{app: a},
			&buyCmd{app: a},
			&sellCmd{app: a},
		},
		"reports": {
			&listCmd{app: a},
			&balanceCmd{app: a},
			&valueCmd{app: a},
			&projectCmd{app: a},
			&txCmd{app: a},
		},
	}
}

// errorf reports an error on the error stream.
func (a *App) errorf(format string, args ...any) {
	fmt.Fprintf(a.Err, format, args...)
}

// printMarkdown writes md to the output, rendered for the terminal in pretty
// mode.
func (a *App) printMarkdown(md string) {
	if !a.Pretty {
		fmt.Fprint(a.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(a.Out, out)
			return
		}
	}
	a.errorf("Warning: cannot render markdown: %v\n", err)
	fmt.Fprint(a.Out, md)
}

// parseDate parses the -d flag, empty means today.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	return date.Parse(s)
}

// dateFlag declares the common -d flag.
func dateFlag(f *flag.FlagSet, p *string, usage string) {
	f.StringVar(p, "d", "", usage+" (YYYY-MM-DD), defaults to today")
}
