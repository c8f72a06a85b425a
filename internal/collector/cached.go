package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/store"
)

// CachedProvider serves fetches from a store before delegating upstream.
// Cache errors are logged and never fail a fetch.
type CachedProvider struct {
	next  Provider
	store store.Store
	ttl   time.Duration
	log   *logrus.Entry
}

// NewCachedProvider wraps next with a cache. ttl <= 0 means entries never expire.
func NewCachedProvider(next Provider, st store.Store, ttl time.Duration, log *logrus.Entry) *CachedProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedProvider{next: next, store: st, ttl: ttl, log: log}
}

func (c *CachedProvider) Name() string { return c.next.Name() }

func (c *CachedProvider) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error) {
	key := cacheKey(c.next.Name(), symbol, start, end)
	entry := c.log.WithFields(logrus.Fields{"symbol": symbol, "key": key})

	cached, ok, err := c.store.GetSeries(ctx, key, c.ttl)
	if err != nil {
		entry.WithError(err).Warn("bar cache read failed")
	} else if ok {
		entry.Debug("bar cache hit")
		return cached, nil
	}

	series, err := c.next.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := c.store.PutSeries(ctx, key, series); err != nil {
		entry.WithError(err).Warn("bar cache write failed")
	}
	return series, nil
}

func cacheKey(provider, symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", provider, symbol, day(start).Format(dateLayout), day(end).Format(dateLayout))
}
