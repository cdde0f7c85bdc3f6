package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type shellCmd struct {
	app    *App
	prompt string
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "run commands from the standard input against one ledger" }
func (*shellCmd) Usage() string {
	return `shell [-p <prompt>]

  Reads one command per line and executes it against the same in-memory
  ledger, so deposits, trades and reports can be chained in a session.
  Blank lines and lines starting with '#' are ignored, 'exit' ends the session.
  A failed command is reported and the session continues.

Usage Examples:
$ printf 'deposit -a 1000 -d 2024-01-02\nbuy -q 5 -d 2024-01-03 ABC\nvalue\n' | pcs shell
`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prompt, "p", "", "Prompt printed before reading each line")
}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	scanner := bufio.NewScanner(c.app.In)
	for {
		if c.prompt != "" {
			fmt.Fprint(c.app.Out, c.prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if s := c.run(ctx, strings.Fields(line)); s != subcommands.ExitSuccess {
			status = subcommands.ExitFailure
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		c.app.errorf("Error reading commands: %v\n", err)
		return subcommands.ExitFailure
	}
	return status
}

// run executes a single command line with a fresh commander, so that flags
// do not leak between lines.
func (c *shellCmd) run(ctx context.Context, args []string) subcommands.ExitStatus {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(c.app.Err)
	commander := subcommands.NewCommander(fs, "")
	commander.Output = c.app.Out
	commander.Error = c.app.Err
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for group, cmds := range c.app.groups() {
		for _, cmd := range cmds {
			commander.Register(cmd, group)
		}
	}
	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	return commander.Execute(ctx)
}
