package bourse

import (
	"context"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/patrickmn/go-cache"
)

// CachedOracle memoizes the prices of another oracle per symbol and date.
// Failures are not cached.
type CachedOracle struct {
	next  folio.PriceOracle
	cache *cache.Cache
}

// Cached wraps next so that a price is fetched once per symbol and date for
// the duration of ttl.
func Cached(next folio.PriceOracle, ttl time.Duration) *CachedOracle {
	return &CachedOracle{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Price implements folio.PriceOracle.
func (c *CachedOracle) Price(ctx context.Context, symbol string, on date.Date) (folio.Money, error) {
	key := symbol + "@" + on.String()
	if v, found := c.cache.Get(key); found {
		return v.(folio.Money), nil
	}
	price, err := c.next.Price(ctx, symbol, on)
	if err != nil {
		return folio.Money{}, err
	}
	c.cache.SetDefault(key, price)
	return price, nil
}

// Flush drops every cached price.
func (c *CachedOracle) Flush() { c.cache.Flush() }
