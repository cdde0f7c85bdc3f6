package cmd

import (
	"flag"

	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line of the application for shell
// completion.
func (a *App) Completion() *complete.Command {
	root := &complete.Command{Sub: make(map[string]*complete.Command)}
	add := func(c subcommands.Command, args complete.Predictor) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor), Args: args}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predict.Nothing })
		root.Sub[c.Name()] = sub
	}
	for _, cmds := range a.groups() {
		for _, c := range cmds {
			var args complete.Predictor = predict.Nothing
			switch c.Name() {
			case "buy", "sell", "value":
				args = a.symbols()
			}
			add(c, args)
		}
	}
	add(&shellCmd{app: a}, predict.Nothing)
	add(&topicCmd{app: a}, predict.Set(append(docs.All(), docs.Index, "*")))
	root.Sub["help"] = &complete.Command{Args: predict.Set(commandNames(root))}
	return root
}

// symbols predicts the symbols already traded in the ledger.
func (a *App) symbols() complete.Predictor {
	return complete.PredictFunc(func(prefix string) []string { return a.Ledger.Symbols() })
}

func commandNames(root *complete.Command) []string {
	names := make([]string, 0, len(root.Sub))
	for name := range root.Sub {
		names = append(names, name)
	}
	return names
}
