package strategy

import (
	"fmt"

	"PriceSentinel/internal/model"
)

// Crossover signals on SMA20 against SMA50: golden cross (SMA20 > SMA50) is
// BUY, death cross (SMA20 < SMA50) is SELL, equality is HOLD. RSI status is
// reported alongside but never changes the signal.
type Crossover struct {
	Overbought float64
	Oversold   float64
}

func (c Crossover) Kind() model.StrategyKind { return model.StrategyCrossover }

func (c Crossover) Generate(latest model.IndicatorSet, _ model.Movement) model.Decision {
	status := c.RSIStatus(latest.RSI14)
	if latest.SMA20 == nil || latest.SMA50 == nil {
		d := insufficient("SMA20/SMA50 not available yet")
		d.RSIStatus = status
		return d
	}
	short, long := *latest.SMA20, *latest.SMA50

	var sig model.Signal
	var why string
	switch {
	case short > long:
		sig = model.SignalBuy
		why = fmt.Sprintf("SMA20 %.2f above SMA50 %.2f (golden cross)", short, long)
	case short < long:
		sig = model.SignalSell
		why = fmt.Sprintf("SMA20 %.2f below SMA50 %.2f (death cross)", short, long)
	default:
		sig = model.SignalHold
		why = fmt.Sprintf("SMA20 equals SMA50 at %.2f", short)
	}
	if latest.RSI14 != nil {
		why += fmt.Sprintf("; RSI %.2f %s", *latest.RSI14, status)
	}
	return model.Decision{Signal: sig, Label: string(sig), RSIStatus: status, Explanation: why}
}

// RSIStatus classifies an RSI reading; nil gives RSIUnknown.
func (c Crossover) RSIStatus(rsi *float64) model.RSIStatus {
	switch {
	case rsi == nil:
		return model.RSIUnknown
	case *rsi > c.Overbought:
		return model.RSIOverbought
	case *rsi < c.Oversold:
		return model.RSIOversold
	default:
		return model.RSINormal
	}
}

// AlertWorthy: only BUY and SELL.
func (c Crossover) AlertWorthy(sig model.Signal) bool {
	return sig == model.SignalBuy || sig == model.SignalSell
}
