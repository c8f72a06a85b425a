package store

import (
	"context"
	"time"

	"PriceSentinel/internal/model"
)

// NoopStore is used when SQLite is not configured. It never hits.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (NoopStore) GetSeries(context.Context, string, time.Duration) (*model.RawSeries, bool, error) {
	return nil, false, nil
}
func (NoopStore) PutSeries(context.Context, string, *model.RawSeries) error { return nil }
func (NoopStore) Close() error                                           { return nil }
