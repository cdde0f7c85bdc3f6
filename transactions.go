package folio

import (
	"fmt"

	"github.com/etnz/folio/date"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
)

// Transaction defines the common interface for all types of financial transactions
// that can be recorded in the ledger.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction (e.g., "buy", "sell").
	When() date.Date   // When returns the date on which the transaction occurred.
	String() string
}

type baseCmd struct {
	Command CommandType // Command specifies the type of transaction (e.g., "buy", "sell").
	Date    date.Date   // Date is the date when the transaction took place.
}

// What returns the command name for the transaction, which is used to identify the type of transaction.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the date of the transaction.
func (t baseCmd) When() date.Date { return t.Date }

// amountCmd is a component for cash transactions (deposit, withdraw).
type amountCmd struct {
	baseCmd
	Amount Money
}

func (t amountCmd) String() string {
	return fmt.Sprintf("%s %s %s", t.Date, t.Command, t.Amount)
}

// Deposit represents cash added to the portfolio.
type Deposit struct{ amountCmd }

// NewDeposit creates a new Deposit transaction.
func NewDeposit(day date.Date, amount Money) Deposit {
	return Deposit{amountCmd{baseCmd{CmdDeposit, day}, amount}}
}

// Withdraw represents cash taken out of the portfolio.
type Withdraw struct{ amountCmd }

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(day date.Date, amount Money) Withdraw {
	return Withdraw{amountCmd{baseCmd{CmdWithdraw, day}, amount}}
}

// tradeCmd is a component for security transactions (buy, sell).
type tradeCmd struct {
	baseCmd
	Symbol    string   // Symbol of the security traded.
	Quantity  Quantity // Quantity is the number of shares traded.
	UnitPrice Money    // UnitPrice is the price of one share on the trade date.
}

// Amount returns the cash value of the trade.
func (t tradeCmd) Amount() Money { return t.UnitPrice.Mul(t.Quantity) }

func (t tradeCmd) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s = %s", t.Date, t.Command, t.Quantity, t.Symbol, t.UnitPrice, t.Amount())
}

// Buy represents a transaction where a quantity of a security is purchased,
// the amount is debited from cash.
type Buy struct{ tradeCmd }

// NewBuy creates a new Buy transaction.
func NewBuy(day date.Date, symbol string, quantity Quantity, unitPrice Money) Buy {
	return Buy{tradeCmd{baseCmd{CmdBuy, day}, symbol, quantity, unitPrice}}
}

// Sell represents a transaction where a quantity of a security is sold,
// the amount is credited to cash.
type Sell struct{ tradeCmd }

// NewSell creates a new Sell transaction.
func NewSell(day date.Date, symbol string, quantity Quantity, unitPrice Money) Sell {
	return Sell{tradeCmd{baseCmd{CmdSell, day}, symbol, quantity, unitPrice}}
}

// cashFlow returns the signed effect of tx on the cash balance.
func cashFlow(tx Transaction) Money {
	switch v := tx.(type) {
	case Deposit:
		return v.Amount
	case Withdraw:
		return v.Amount.Neg()
	case Buy:
		return v.Amount().Neg()
	case Sell:
		return v.Amount()
	default:
		return Money{}
	}
}

// shareFlow returns the signed effect of tx on the position in symbol.
func shareFlow(tx Transaction, symbol string) Quantity {
	switch v := tx.(type) {
	case Buy:
		if v.Symbol == symbol {
			return v.Quantity
		}
	case Sell:
		if v.Symbol == symbol {
			return Quantity{}.Sub(v.Quantity)
		}
	}
	return Quantity{}
}

// symbolOf returns the symbol traded by tx, or "" for cash transactions.
func symbolOf(tx Transaction) string {
	switch v := tx.(type) {
	case Buy:
		return v.Symbol
	case Sell:
		return v.Symbol
	default:
		return ""
	}
}
