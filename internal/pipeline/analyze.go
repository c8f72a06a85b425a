package pipeline

import (
	"fmt"

	"PriceSentinel/internal/calculator"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/strategy"
	"PriceSentinel/internal/validator"
)

// Analysis is the pure result of one symbol's validate, compute, classify and
// generate steps.
type Analysis struct {
	Symbol     string
	Series     *model.PriceSeries
	Indicators []model.IndicatorSet
	Latest     model.IndicatorSet
	Movement   model.Movement
	Decision   model.Decision
}

// AnalyzeSeries runs the I/O-free part of the pipeline on a raw series.
func AnalyzeSeries(symbol string, raw *model.RawSeries, strat strategy.Strategy) (*Analysis, error) {
	if strat == nil {
		return nil, fmt.Errorf("no strategy selected")
	}
	series, err := validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	series.Symbol = symbol

	sets := calculator.Compute(series)
	mv, err := calculator.Classify(series)
	if err != nil {
		return nil, err
	}
	latest := calculator.Latest(sets)

	return &Analysis{
		Symbol:     symbol,
		Series:     series,
		Indicators: sets,
		Latest:     latest,
		Movement:   mv,
		Decision:   strat.Generate(latest, mv),
	}, nil
}

// Event builds the alert event for the latest point.
func (a *Analysis) Event(kind model.StrategyKind) model.AlertEvent {
	bar := a.Series.Latest()
	return model.AlertEvent{
		Symbol:        a.Symbol,
		Strategy:      kind,
		Signal:        a.Decision.Signal,
		Label:         a.Decision.Label,
		LatestClose:   bar.Close,
		PercentChange: a.Movement.PercentChange,
		RSI:           a.Latest.RSI14,
		RSIStatus:     a.Decision.RSIStatus,
		Timestamp:     bar.Time,
	}
}

// Summary builds the summary record without a dispatch outcome.
func (a *Analysis) Summary(kind model.StrategyKind, withChart bool) model.Summary {
	bar := a.Series.Latest()
	s := model.Summary{
		Symbol:      a.Symbol,
		Status:      model.StatusOK,
		Strategy:    kind,
		LatestClose: bar.Close,
		LatestDate:  bar.Time,
		Movement:    a.Movement,
		Indicators:  a.Latest,
		Decision:    a.Decision,
	}
	if withChart {
		s.Chart = calculator.Chart(a.Series, a.Indicators)
	}
	return s
}
