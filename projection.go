package folio

import (
	"context"
	"fmt"
	"math"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// DaysPerYear converts a number of days into years for compounding.
const DaysPerYear = 365.25

// Returns holds expected annual returns in percent, per symbol with a default
// for symbols not listed.
type Returns struct {
	Default  float64
	BySymbol map[string]float64
}

// Rate returns the same annual return, in percent, for every symbol.
func Rate(percent float64) Returns { return Returns{Default: percent} }

// For returns the annual return of symbol in percent.
func (r Returns) For(symbol string) float64 {
	if rate, ok := r.BySymbol[symbol]; ok {
		return rate
	}
	return r.Default
}

// validate rejects rates that cannot be compounded: NaN, infinite, or a loss
// larger than 100%.
func (r Returns) validate() error {
	check := func(symbol string, rate float64) error {
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < -100 {
			return fmt.Errorf("annual return %v%% for %q: %w", rate, symbol, ErrInvalidReturn)
		}
		return nil
	}
	if err := check("*", r.Default); err != nil {
		return err
	}
	for symbol, rate := range r.BySymbol {
		if err := check(symbol, rate); err != nil {
			return err
		}
	}
	return nil
}

// Projection is the estimated value of the portfolio at a future date.
type Projection struct {
	From, Until date.Date
	Years       float64
	Cash        Money  // today's cash balance, not compounded
	Lines       []Line // today's holdings with their projected value
	Volatility  float64
}

// Securities returns the projected value of all holdings.
func (p Projection) Securities() Money {
	return Appraisal{Cash: M(0, p.Cash.Currency()), Lines: p.Lines}.Securities()
}

// Total returns the projected value of the portfolio.
func (p Projection) Total() Money { return p.Cash.Add(p.Securities()) }

// Project estimates the value of the portfolio at a date on or after today.
//
// Each position held today is valued at today's price and compounded to
// until: value * (1 + rate/100) ^ (days / 365.25). Cash is carried at its
// current balance without interest.
//
// volatility is accepted for a future confidence interval model, it must be
// non-negative and does not change the projected value.
func (l *Ledger) Project(ctx context.Context, until date.Date, returns Returns, volatility float64) (Projection, error) {
	today := l.today()
	if until.Before(today) {
		return Projection{}, fmt.Errorf("projection date %s is before today %s: %w", until, today, ErrInvalidDate)
	}
	if math.IsNaN(volatility) || volatility < 0 {
		return Projection{}, fmt.Errorf("volatility must be non-negative, got %v: %w", volatility, ErrInvalidVolatility)
	}
	if err := returns.validate(); err != nil {
		return Projection{}, err
	}

	current, err := l.Appraise(ctx, today)
	if err != nil {
		return Projection{}, err
	}

	years := float64(today.DaysUntil(until)) / DaysPerYear
	p := Projection{
		From:       today,
		Until:      until,
		Years:      years,
		Cash:       current.Cash,
		Lines:      make([]Line, len(current.Lines)),
		Volatility: volatility,
	}
	for i, line := range current.Lines {
		rate := returns.For(line.Symbol)
		factor := math.Pow(1+rate/100, years)
		if math.IsInf(factor, 0) || math.IsNaN(factor) {
			return Projection{}, fmt.Errorf("annual return %v%% for %q overflows over %.2f years: %w", rate, line.Symbol, years, ErrInvalidReturn)
		}
		line.Value = line.Value.Scale(decimal.NewFromFloat(factor))
		p.Lines[i] = line
	}
	l.log.Debug().
		Stringer("until", until).
		Float64("years", years).
		Float64("volatility", volatility).
		Msg("project")
	return p, nil
}

// ProjectedValue estimates the total value of the portfolio at a date on or
// after today, see Project.
func (l *Ledger) ProjectedValue(ctx context.Context, until date.Date, returns Returns, volatility float64) (Money, error) {
	p, err := l.Project(ctx, until, returns, volatility)
	if err != nil {
		return Money{}, err
	}
	return p.Total(), nil
}
