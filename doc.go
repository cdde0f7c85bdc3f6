// Package folio models a cash-and-securities portfolio ledger.
//
// A Ledger is an append-only log of dated transactions (deposits, withdrawals,
// buys and sells). Every view of the portfolio is derived on demand by
// replaying that log as of a date:
//   - Balance: the cash available on a date.
//   - Holdings: the net quantity held per symbol on a date.
//   - TotalValue and ValueOf: cash and securities priced through a PriceOracle.
//   - ProjectedValue: current holdings compounded forward to a future date.
//
// Trades are priced by a PriceOracle injected at construction, see package
// bourse for the HTTP implementation. No operation may be evaluated against a
// date after today, and a rejected operation never changes the ledger.
package folio
