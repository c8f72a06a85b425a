package strategy

import (
	"fmt"

	"PriceSentinel/internal/model"
)

// Threshold signals on the size of the latest percent change:
// BUY above +Percent, SELL below -Percent, HOLD otherwise (boundaries included).
type Threshold struct {
	Percent float64
}

func (t Threshold) Kind() model.StrategyKind { return model.StrategyThreshold }

func (t Threshold) Generate(_ model.IndicatorSet, mv model.Movement) model.Decision {
	if mv.Direction == model.DirectionInsufficient || mv.PercentChange == nil {
		return insufficient("fewer than 2 closes")
	}
	pct := *mv.PercentChange

	var sig model.Signal
	var why string
	switch {
	case pct > t.Percent:
		sig = model.SignalBuy
		why = fmt.Sprintf("change %+.2f%% above %+.2f%%", pct, t.Percent)
	case pct < -t.Percent:
		sig = model.SignalSell
		why = fmt.Sprintf("change %+.2f%% below %+.2f%%", pct, -t.Percent)
	default:
		sig = model.SignalHold
		why = fmt.Sprintf("change %+.2f%% within ±%.2f%%", pct, t.Percent)
	}
	return model.Decision{Signal: sig, Label: string(sig), Explanation: why}
}

// AlertWorthy: any determinate signal, HOLD included.
func (t Threshold) AlertWorthy(sig model.Signal) bool {
	return sig != model.SignalInsufficientData
}
