package calculator

import "PriceSentinel/internal/model"

// Standard indicator periods.
const (
	ShortSMAPeriod = 20
	LongSMAPeriod  = 50
	RSIPeriod      = 14
)

// Compute derives the indicator set at every point of the series. Values at
// index i only use bars 0..i.
func Compute(series *model.PriceSeries) []model.IndicatorSet {
	closes := series.Closes()

	sma20 := SMASeries(closes, ShortSMAPeriod)
	sma50 := SMASeries(closes, LongSMAPeriod)
	rsi := RSISeries(closes, RSIPeriod)
	macd := MACDDiffSeries(closes, MACDFast, MACDSlow, MACDSignal)
	upper, lower := BollingerSeries(closes, BollingerPeriod, BollingerWidth)

	out := make([]model.IndicatorSet, len(closes))
	for i := range closes {
		out[i] = model.IndicatorSet{
			SMA20:          sma20[i],
			SMA50:          sma50[i],
			RSI14:          rsi[i],
			MACDDiff:       macd[i],
			BollingerUpper: upper[i],
			BollingerLower: lower[i],
		}
	}
	return out
}

// Latest returns the indicator set of the last point, or an empty set.
func Latest(sets []model.IndicatorSet) model.IndicatorSet {
	if len(sets) == 0 {
		return model.IndicatorSet{}
	}
	return sets[len(sets)-1]
}

// Chart pairs each bar with its indicators.
func Chart(series *model.PriceSeries, sets []model.IndicatorSet) []model.ChartPoint {
	points := make([]model.ChartPoint, len(series.Bars))
	for i, b := range series.Bars {
		points[i] = model.ChartPoint{Time: b.Time, Close: b.Close}
		if i < len(sets) {
			points[i].Indicators = sets[i]
		}
	}
	return points
}
