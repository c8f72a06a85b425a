package calculator

// MACD periods.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// EMASeries computes an exponential average with multiplier 2/(period+1),
// seeded with the first price. Every index gets a value; callers decide how
// much warm-up history they require.
func EMASeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 || period <= 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACDDiffSeries returns MACD line minus its signal line at every index.
// The MACD line is EMA(fast) - EMA(slow); the signal line is an EMA(signal)
// of the MACD line starting where the slow average has a full window.
// Entries before index slow-1 are nil.
func MACDDiffSeries(prices []float64, fast, slow, signal int) []*float64 {
	out := make([]*float64, len(prices))
	start := slow - 1
	if slow <= 0 || fast <= 0 || signal <= 0 || len(prices) <= start {
		return out
	}

	emaFast := EMASeries(prices, fast)
	emaSlow := EMASeries(prices, slow)

	line := make([]float64, len(prices)-start)
	for i := start; i < len(prices); i++ {
		line[i-start] = emaFast[i] - emaSlow[i]
	}
	sig := EMASeries(line, signal)

	for j := range line {
		diff := line[j] - sig[j]
		out[start+j] = &diff
	}
	return out
}
