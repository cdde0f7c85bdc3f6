package cmd

import (
	"context"
	"flag"

	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	app *App
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `topic [<topic>...]

  Shows the documentation of the given topics, the list of topics by default.
  '*' shows every topic.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}
	doc, err := docs.Topics(topics...)
	if err != nil {
		c.app.errorf("Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(doc)
	return subcommands.ExitSuccess
}
