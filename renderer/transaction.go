package renderer

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// Transaction renders a transaction to a sentence.
func Transaction(tx folio.Transaction) string {
	switch v := tx.(type) {
	case folio.Buy:
		return fmt.Sprintf("Bought %s %s at %s for %s", v.Quantity, v.Symbol, v.UnitPrice, v.Amount())
	case folio.Sell:
		return fmt.Sprintf("Sold %s %s at %s for %s", v.Quantity, v.Symbol, v.UnitPrice, v.Amount())
	case folio.Deposit:
		return fmt.Sprintf("Deposited %s", v.Amount)
	case folio.Withdraw:
		return fmt.Sprintf("Withdrew %s", v.Amount)
	default:
		return string(tx.What())
	}
}

// TransactionsMarkdown renders the transaction log in insertion order.
func TransactionsMarkdown(name string, txs iter.Seq2[int, folio.Transaction]) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Transactions of %s", name))

	table := md.TableSet{
		Header: []string{"#", "Date", "Command", "Symbol", "Quantity", "Price", "Amount"},
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
	}
	for i, tx := range txs {
		row := []string{fmt.Sprint(i + 1), tx.When().String(), string(tx.What()), "", "", "", ""}
		switch v := tx.(type) {
		case folio.Buy:
			row[3], row[4], row[5], row[6] = v.Symbol, v.Quantity.String(), v.UnitPrice.String(), v.Amount().Neg().SignedString()
		case folio.Sell:
			row[3], row[4], row[5], row[6] = v.Symbol, v.Quantity.String(), v.UnitPrice.String(), v.Amount().SignedString()
		case folio.Deposit:
			row[6] = v.Amount.SignedString()
		case folio.Withdraw:
			row[6] = v.Amount.Neg().SignedString()
		}
		table.Rows = append(table.Rows, row)
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}
	doc.Table(table)
	return doc.String()
}
