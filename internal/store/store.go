// Package store caches fetched market data between runs.
package store

import (
	"context"
	"time"

	"PriceSentinel/internal/model"
)

// Store caches raw provider responses.
type Store interface {
	// GetSeries returns the cached series for key if it is younger than maxAge.
	GetSeries(ctx context.Context, key string, maxAge time.Duration) (*model.RawSeries, bool, error)
	PutSeries(ctx context.Context, key string, series *model.RawSeries) error
	Close() error
}
