package model

import "time"

// OHLCV represents a single validated daily bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// RawBar is a bar as returned by a data provider, before validation.
// Close is kept untyped: providers hand back numbers, numeric strings or null.
type RawBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  any       `json:"close"`
	Volume float64   `json:"volume"`
}

// RawSeries is the unvalidated provider response for one symbol.
type RawSeries struct {
	Symbol   string   `json:"symbol"`
	HasClose bool     `json:"has_close"` // false when the provider returned no close column at all
	Bars     []RawBar `json:"bars"`
}

// PriceSeries is a cleaned, strictly time-ordered series for one symbol.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
}

// Closes returns the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Latest returns the last bar. The series must be non-empty.
func (s *PriceSeries) Latest() OHLCV { return s.Bars[len(s.Bars)-1] }
