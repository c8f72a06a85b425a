// Package strategy turns indicators and movement into a discrete signal.
package strategy

import (
	"fmt"
	"strings"

	"PriceSentinel/internal/model"
)

// Strategy is a selectable signal policy.
type Strategy interface {
	Kind() model.StrategyKind
	// Generate decides the signal for the latest point of a series.
	Generate(latest model.IndicatorSet, mv model.Movement) model.Decision
	// AlertWorthy reports whether a signal should be dispatched as an alert.
	AlertWorthy(sig model.Signal) bool
}

// Options tunes the thresholds shared by the strategies.
type Options struct {
	ThresholdPercent float64 // threshold: |percent change| needed for BUY/SELL
	Overbought       float64 // crossover: RSI above this is Overbought
	Oversold         float64 // crossover: RSI below this is Oversold
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{ThresholdPercent: 2, Overbought: 70, Oversold: 30}
}

// Parse resolves a strategy name, accepting a few aliases.
func Parse(name string) (model.StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple", "direction", "simpledirection":
		return model.StrategySimple, nil
	case "threshold", "percent", "thresholdstrategy":
		return model.StrategyThreshold, nil
	case "crossover", "trend", "sma", "crossoverstrategy":
		return model.StrategyCrossover, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want simple, threshold or crossover)", name)
	}
}

// New builds the strategy for kind. Zero-valued option fields fall back to defaults.
func New(kind model.StrategyKind, opts Options) (Strategy, error) {
	def := DefaultOptions()
	if opts.ThresholdPercent <= 0 {
		opts.ThresholdPercent = def.ThresholdPercent
	}
	if opts.Overbought <= 0 {
		opts.Overbought = def.Overbought
	}
	if opts.Oversold <= 0 {
		opts.Oversold = def.Oversold
	}

	switch kind {
	case model.StrategySimple:
		return SimpleDirection{}, nil
	case model.StrategyThreshold:
		return Threshold{Percent: opts.ThresholdPercent}, nil
	case model.StrategyCrossover:
		return Crossover{Overbought: opts.Overbought, Oversold: opts.Oversold}, nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %q", kind)
	}
}

// insufficient is the decision every strategy returns when it cannot decide.
func insufficient(reason string) model.Decision {
	return model.Decision{
		Signal:      model.SignalInsufficientData,
		Label:       string(model.SignalInsufficientData),
		Explanation: reason,
	}
}
