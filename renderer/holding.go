package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the quantity held per symbol.
func HoldingsMarkdown(on date.Date, holdings map[string]folio.Quantity) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Holdings on %s", on))

	if len(holdings) == 0 {
		doc.PlainText("No holdings.")
		return doc.String()
	}
	table := md.TableSet{
		Header:    []string{"Symbol", "Quantity"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
	}
	for _, s := range slices.Sorted(maps.Keys(holdings)) {
		table.Rows = append(table.Rows, []string{s, holdings[s].String()})
	}
	doc.Table(table)
	return doc.String()
}

// AppraisalMarkdown renders the valuation of every holding, the cash balance
// and the total.
func AppraisalMarkdown(a folio.Appraisal) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Portfolio Value on %s", a.Date))

	table := md.TableSet{
		Header: []string{"Symbol", "Quantity", "Price", "Value"},
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
	}
	for _, line := range a.Lines {
		table.Rows = append(table.Rows, []string{
			line.Symbol,
			line.Quantity.String(),
			line.Price.String(),
			line.Value.String(),
		})
	}
	table.Rows = append(table.Rows,
		[]string{"Cash", "", "", a.Cash.String()},
		[]string{md.Bold("Total"), "", "", md.Bold(a.Total().String())},
	)
	doc.Table(table)
	return doc.String()
}

// BalanceMarkdown renders the cash balance on a date.
func BalanceMarkdown(on date.Date, cash folio.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.PlainText(fmt.Sprintf("Cash balance on %s: %s", on, md.Bold(cash.String())))
	return doc.String()
}

// ValueMarkdown renders the market value of a set of securities on a date.
func ValueMarkdown(on date.Date, symbols []string, value folio.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.PlainText(fmt.Sprintf("Value of %s on %s: %s", joinSymbols(symbols), on, md.Bold(value.String())))
	return doc.String()
}

func joinSymbols(symbols []string) string {
	switch n := len(symbols); n {
	case 0:
		return "no security"
	case 1:
		return symbols[0]
	default:
		return strings.Join(symbols[:n-1], ", ") + " and " + symbols[n-1]
	}
}
