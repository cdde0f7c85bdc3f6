package docs_test

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/etnz/folio"
	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that the index and the topic files are in sync.
func TestTopics(t *testing.T) {
	index, err := docs.Topic(docs.Index)
	require.NoError(t, err)

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(strings.NewReader(index))
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, docs.All(), listed, "every topic must be listed once, in order, in readme.md")
	for _, topic := range listed {
		_, err := docs.Topic(topic)
		assert.NoError(t, err, topic)
	}

	all, err := docs.Topics("*")
	require.NoError(t, err)
	for _, topic := range listed {
		content, _ := docs.Topic(topic)
		assert.Contains(t, all, content)
	}

	_, err = docs.Topic("missing")
	assert.Error(t, err)
}

// block is a fenced code block of the manual.
type block struct {
	file    string
	line    int
	content string
}

// shellBlocks returns the fenced code blocks tagged "shell" of a topic.
func shellBlocks(t *testing.T, topic string) []block {
	t.Helper()
	content, err := docs.Topic(topic)
	require.NoError(t, err)
	source := []byte(content)

	var blocks []block
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		if string(fcb.Language(source)) != "shell" {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, block{
			file:    topic + ".md",
			line:    bytes.Count(source[:fcb.Info.Segment.Start], []byte("\n")) + 1,
			content: b.String(),
		})
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return blocks
}

// prices is a fixed oracle for the examples of the manual.
var prices = folio.OracleFunc(func(ctx context.Context, symbol string, on date.Date) (folio.Money, error) {
	switch symbol {
	case "ABC":
		if on.Before(date.New(2024, 1, 3)) {
			return folio.M(50, "USD"), nil
		}
		return folio.M(60, "USD"), nil
	case "XYZ":
		return folio.M(20, "USD"), nil
	}
	return folio.Money{}, fmt.Errorf("%s: %w", symbol, folio.ErrNoPriceAvailable)
})

// TestExamples runs every shell example of the manual in a fresh session.
func TestExamples(t *testing.T) {
	for _, topic := range append(docs.All(), docs.Index) {
		for _, b := range shellBlocks(t, topic) {
			t.Run(fmt.Sprintf("%s:%d", b.file, b.line), func(t *testing.T) {
				ledger := folio.NewLedger("manual", prices, folio.WithClock(func() date.Date { return date.New(2024, 6, 30) }))
				var out, errOut bytes.Buffer
				app := &cmd.App{Ledger: ledger, In: strings.NewReader(b.content), Out: &out, Err: &errOut}

				fs := flag.NewFlagSet("pcs", flag.ContinueOnError)
				fs.SetOutput(&errOut)
				commander := subcommands.NewCommander(fs, "pcs")
				commander.Output, commander.Error = &out, &errOut
				app.Register(commander)
				require.NoError(t, fs.Parse([]string{"shell"}))

				status := commander.Execute(context.Background())
				assert.Equal(t, subcommands.ExitSuccess, status, "%s:%d failed:\n%s", b.file, b.line, errOut.String())
				assert.Empty(t, errOut.String())
				t.Log(out.String())
			})
		}
	}
}
