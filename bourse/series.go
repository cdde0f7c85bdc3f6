package bourse

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// parseSeries extracts the closing prices from a decoded response.
//
//	{
//	  "historique": {
//	    "2024-01-02": {"ouverture": 49.5, "fermeture": 50.25, "volume": 1200},
//	    "2024-01-03": {"ouverture": 50.1, "fermeture": 51.0, "volume": 900}
//	  }
//	}
//
// path locates the date to quote mapping and field is the closing price in each quote.
func parseSeries(body any, path, field string) (*date.History[decimal.Decimal], error) {
	jval, err := jsonpath.Get(path, body)
	if err != nil {
		return nil, fmt.Errorf("cannot find %q in response: %w: %w", path, folio.ErrServiceError, err)
	}
	// jsonpath returns a list when the path has wildcards, keep the first match.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	quotes, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a date to quote mapping but %T: %w", path, jval, folio.ErrServiceError)
	}

	series := new(date.History[decimal.Decimal])
	for key, q := range quotes {
		day, err := date.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("invalid series key: %w: %w", folio.ErrServiceError, err)
		}
		quote, ok := q.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("quote on %s is not an object: %w", day, folio.ErrServiceError)
		}
		price, err := toDecimal(quote[field])
		if err != nil {
			return nil, fmt.Errorf("quote on %s has no valid %q: %w: %w", day, field, folio.ErrServiceError, err)
		}
		series.Append(day, price)
	}
	return series, nil
}

// toDecimal converts a decoded JSON value into a decimal, some services send
// prices as strings.
func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	case nil:
		return decimal.Zero, fmt.Errorf("missing value")
	default:
		return decimal.Zero, fmt.Errorf("unexpected %T", v)
	}
}
