package folio

import (
	"context"

	"github.com/etnz/folio/date"
)

// PriceOracle provides the closing price of a symbol as of a date: the price
// of the most recent session on or before that date.
//
// Implementations fail with ErrInvalidDate for a date after today,
// ErrNoPriceAvailable when there is no price on or before the date, and
// ErrServiceError when the source cannot be reached.
type PriceOracle interface {
	Price(ctx context.Context, symbol string, on date.Date) (Money, error)
}

// OracleFunc adapts a function to the PriceOracle interface.
type OracleFunc func(ctx context.Context, symbol string, on date.Date) (Money, error)

func (f OracleFunc) Price(ctx context.Context, symbol string, on date.Date) (Money, error) {
	return f(ctx, symbol, on)
}
