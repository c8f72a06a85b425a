package calculator

// RSISeries computes the Wilder-smoothed RSI at every index. The first value
// appears at index period, once period price changes exist; earlier entries
// are nil. An average loss of zero yields 100.
func RSISeries(prices []float64, period int) []*float64 {
	out := make([]*float64, len(prices))
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for remaining bars
	p := float64(period)
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

// CalculateRSI returns the RSI at the last price, or false with fewer than period+1 prices.
func CalculateRSI(prices []float64, period int) (float64, bool) {
	series := RSISeries(prices, period)
	if len(series) == 0 || series[len(series)-1] == nil {
		return 0, false
	}
	return *series[len(series)-1], true
}

func rsiValue(avgGain, avgLoss float64) *float64 {
	var rsi float64
	if avgLoss == 0 {
		rsi = 100.0
	} else {
		rs := avgGain / avgLoss
		rsi = 100.0 - 100.0/(1.0+rs)
	}
	// Guard float noise at the bounds.
	if rsi < 0 {
		rsi = 0
	} else if rsi > 100 {
		rsi = 100
	}
	return &rsi
}
