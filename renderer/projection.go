package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// ProjectionMarkdown renders the projected value of each holding next to its
// current value.
func ProjectionMarkdown(p folio.Projection) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Projection to %s", p.Until))
	doc.PlainText(fmt.Sprintf("From %s, %.2f years.", p.From, p.Years))

	table := md.TableSet{
		Header: []string{"Symbol", "Quantity", "Today", "Projected"},
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
	}
	for _, line := range p.Lines {
		table.Rows = append(table.Rows, []string{
			line.Symbol,
			line.Quantity.String(),
			line.Price.Mul(line.Quantity).String(),
			line.Value.Round(2).String(),
		})
	}
	table.Rows = append(table.Rows,
		[]string{"Cash", "", p.Cash.String(), p.Cash.String()},
		[]string{md.Bold("Total"), "", "", md.Bold(p.Total().Round(2).String())},
	)
	doc.Table(table)
	return doc.String()
}
