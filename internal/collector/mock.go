package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"PriceSentinel/internal/model"
)

// MockProvider returns controllable data for development and testing.
// Bars, when set, is returned as-is for every symbol; otherwise a
// deterministic series is generated from Price over the weekdays in range.
type MockProvider struct {
	Price float64
	Bars  map[string][]model.RawBar
	Err   map[string]error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.RawSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)
	}
	if err, ok := m.Err[symbol]; ok {
		return nil, fmt.Errorf("%w: mock %s: %w", model.ErrDataUnavailable, symbol, err)
	}
	if bars, ok := m.Bars[symbol]; ok {
		cp := make([]model.RawBar, len(bars))
		copy(cp, bars)
		return &model.RawSeries{Symbol: symbol, HasClose: true, Bars: cp}, nil
	}
	return &model.RawSeries{Symbol: symbol, HasClose: true, Bars: generateMockBars(m.price(), day(start), day(end))}, nil
}

func (m *MockProvider) price() float64 {
	if m.Price <= 0 {
		return 100
	}
	return m.Price
}

func generateMockBars(basePrice float64, start, end time.Time) []model.RawBar {
	var bars []model.RawBar
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.001*float64(i) + 0.03*math.Sin(float64(i)/6))
		bars = append(bars, model.RawBar{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
