// Command pcs manages a cash and securities portfolio priced by a remote
// historical price service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/bourse"
	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
)

var configDir = flag.String("config", ".", "Directory holding folio.yaml and .env")

func main() {
	// Exits when invoked by the shell for completion.
	completion := cmd.NewApp(folio.NewLedger("", nil)).Completion()
	completion.Flags = map[string]complete.Predictor{"config": predict.Dirs("*")}
	completion.Complete(path.Base(os.Args[0]))

	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	level, _ := cfg.LogLevel() // validated by Load
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	var oracle folio.PriceOracle = bourse.NewClient(cfg.Oracle(), logger)
	if cfg.Price.CacheTTL > 0 {
		oracle = bourse.Cached(oracle, cfg.Price.CacheTTL)
	}
	ledger := folio.NewLedger(cfg.Portfolio.Name, oracle,
		folio.WithCurrency(cfg.Portfolio.Currency),
		folio.WithLogger(logger),
	)

	app := cmd.NewApp(ledger)
	app.Pretty = isatty.IsTerminal(os.Stdout.Fd())

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	app.Register(commander)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(int(commander.Execute(ctx)))
}
