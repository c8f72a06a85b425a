package model

import "time"

// IndicatorSet holds the technical indicators at one point of a series.
// A nil field means the indicator's trailing window is not yet available.
type IndicatorSet struct {
	SMA20          *float64 `json:"sma20"`
	SMA50          *float64 `json:"sma50"`
	RSI14          *float64 `json:"rsi14"`
	MACDDiff       *float64 `json:"macd_diff"`
	BollingerUpper *float64 `json:"bollinger_upper"`
	BollingerLower *float64 `json:"bollinger_lower"`
}

// ChartPoint pairs a bar's date and close with its indicators, for rendering.
type ChartPoint struct {
	Time       time.Time    `json:"time"`
	Close      float64      `json:"close"`
	Indicators IndicatorSet `json:"indicators"`
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 { return &v }
