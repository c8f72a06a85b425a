package calculator

import (
	"errors"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the trailing SMA at every index. Entries before
// period-1 are nil. Each value is summed from its own window so no rounding
// drift accumulates along the series.
func SMASeries(prices []float64, period int) []*float64 {
	out := make([]*float64, len(prices))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(prices); i++ {
		v, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			continue
		}
		out[i] = &v
	}
	return out
}
