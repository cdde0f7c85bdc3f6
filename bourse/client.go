// Package bourse implements folio.PriceOracle on top of a historical price
// service that answers
//
//	GET {base}/{symbol}/historique/?début=YYYY-MM-DD&fin=YYYY-MM-DD
//
// with a JSON mapping of session dates to quotes.
package bourse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default values used when a Config field is left empty.
const (
	DefaultURL        = "https://pax.ulaval.ca/action"
	DefaultLookback   = 14
	DefaultTimeout    = 10 * time.Second
	DefaultSeriesPath = "$.historique"
	DefaultCloseField = "fermeture"
	DefaultCurrency   = "USD"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Currency   string        // currency of the returned prices
	Lookback   int           // days requested before the date, to cover weekends and holidays
	Timeout    time.Duration // per request
	Rate       float64       // requests per second, 0 means unlimited
	SeriesPath string        // JSONPath to the date to quote mapping
	CloseField string        // closing price field of a quote

	// Today replaces date.Today, used to reject future dates.
	Today func() date.Date
}

// Client fetches closing prices from the historical price service.
//
// A Client is safe for concurrent use.
type Client struct {
	http       *http.Client
	base       string
	currency   string
	lookback   int
	seriesPath string
	closeField string
	limiter    *rate.Limiter // nil when unlimited
	today      func() date.Date
	log        zerolog.Logger
}

// NewClient creates a Client, empty Config fields take their default value.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	c := &Client{
		http:       &http.Client{Timeout: orDefault(cfg.Timeout, DefaultTimeout)},
		base:       strings.TrimRight(orDefault(cfg.BaseURL, DefaultURL), "/"),
		currency:   orDefault(cfg.Currency, DefaultCurrency),
		lookback:   orDefault(cfg.Lookback, DefaultLookback),
		seriesPath: orDefault(cfg.SeriesPath, DefaultSeriesPath),
		closeField: orDefault(cfg.CloseField, DefaultCloseField),
		today:      cfg.Today,
		log:        log.With().Str("component", "bourse").Logger(),
	}
	if cfg.Rate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	if c.today == nil {
		c.today = date.Today
	}
	return c
}

// orDefault returns v, or def if v is the zero value.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Price returns the closing price of symbol on the latest session on or
// before on.
//
// Only the Lookback days up to on are requested: a symbol that did not trade
// in that window has no price, even if older sessions exist. Raise Lookback
// (price.lookback_days) for thinly traded symbols.
func (c *Client) Price(ctx context.Context, symbol string, on date.Date) (folio.Money, error) {
	if today := c.today(); on.After(today) {
		return folio.Money{}, fmt.Errorf("no price of %s on %s after today %s: %w", symbol, on, today, folio.ErrInvalidDate)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return folio.Money{}, fmt.Errorf("rate limiter: %w: %w", folio.ErrServiceError, err)
		}
	}

	window := date.Lookback(on, c.lookback)
	addr := c.historyURL(symbol, window)
	c.log.Debug().Str("symbol", symbol).Stringer("window", window).Msg("fetch")

	var body any
	if err := jwget(ctx, c.http, addr, &body); err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("fetch failed")
		return folio.Money{}, err
	}
	series, err := parseSeries(body, c.seriesPath, c.closeField)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("invalid response")
		return folio.Money{}, err
	}

	c.log.Debug().Str("symbol", symbol).Int("sessions", series.Len()).Msg("history")

	day, price, ok := series.ValueAsOf(on)
	if !ok {
		return folio.Money{}, fmt.Errorf("no price of %s between %s and %s: %w", symbol, window.From, window.To, folio.ErrNoPriceAvailable)
	}
	c.log.Debug().Str("symbol", symbol).Stringer("session", day).Str("close", price.String()).Msg("price")
	return folio.M(price, c.currency), nil
}

// historyURL returns the address of the price history of symbol in a range.
func (c *Client) historyURL(symbol string, r date.Range) string {
	q := url.Values{}
	q.Set("début", r.From.String())
	q.Set("fin", r.To.String())
	return fmt.Sprintf("%s/%s/historique/?%s", c.base, url.PathEscape(symbol), q.Encode())
}
