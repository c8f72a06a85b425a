package calculator

import "math"

// Bollinger band defaults.
const (
	BollingerPeriod = 20
	BollingerWidth  = 2.0
)

// BollingerSeries returns upper and lower bands at every index:
// SMA(period) ± k × sample standard deviation of the same window.
// Entries before period-1 are nil. A flat window collapses both bands onto the SMA.
func BollingerSeries(prices []float64, period int, k float64) (upper, lower []*float64) {
	upper = make([]*float64, len(prices))
	lower = make([]*float64, len(prices))
	if period < 2 {
		return upper, lower
	}
	for i := period - 1; i < len(prices); i++ {
		window := prices[i-period+1 : i+1]
		mean, err := CalculateSMA(window, period)
		if err != nil {
			continue
		}
		sd := sampleStdDev(window, mean)
		u := mean + k*sd
		l := mean - k*sd
		upper[i] = &u
		lower[i] = &l
	}
	return upper, lower
}

func sampleStdDev(window []float64, mean float64) float64 {
	var ss float64
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(window)-1))
}
