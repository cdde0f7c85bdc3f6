package folio

import "errors"

// Errors returned by ledger and oracle operations. They are wrapped with
// context, test them with errors.Is.
var (
	// ErrInvalidDate reports a future date where a historical view is required,
	// or a past date where a projection is required.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidQuantity reports a trade quantity that is not a positive integer.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidAmount reports a cash amount that is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	ErrInvalidSymbol     = errors.New("invalid symbol")
	ErrInvalidReturn     = errors.New("invalid annual return")
	ErrInvalidVolatility = errors.New("invalid volatility")
	ErrCurrencyMismatch  = errors.New("currency mismatch")

	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrNoPriceAvailable reports that the oracle has no price on or before the date.
	ErrNoPriceAvailable = errors.New("no price available")

	// ErrServiceError reports a transport or API failure of the price service.
	ErrServiceError = errors.New("price service error")
)
