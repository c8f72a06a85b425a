package calculator

import (
	"fmt"

	"PriceSentinel/internal/model"
)

// Classify compares the latest close with the previous one.
// Fewer than two closes yields DirectionInsufficient with no percent change.
func Classify(series *model.PriceSeries) (model.Movement, error) {
	if series == nil || series.Len() < 2 {
		return model.Movement{Direction: model.DirectionInsufficient}, nil
	}
	latest := series.Bars[series.Len()-1].Close
	prev := series.Bars[series.Len()-2].Close
	if prev == 0 {
		return model.Movement{}, fmt.Errorf("%w: previous close is zero", model.ErrDegenerateInput)
	}

	pct := (latest - prev) / prev * 100
	dir := model.DirectionFlat
	switch {
	case latest > prev:
		dir = model.DirectionUp
	case latest < prev:
		dir = model.DirectionDown
	}
	return model.Movement{Direction: dir, PercentChange: &pct}, nil
}
