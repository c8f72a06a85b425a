package strategy

import (
	"fmt"

	"PriceSentinel/internal/model"
)

// SimpleDirection mirrors the movement direction. Its signal carries no
// trading meaning: any determinate movement is HOLD, labelled with the direction.
type SimpleDirection struct{}

func (SimpleDirection) Kind() model.StrategyKind { return model.StrategySimple }

func (SimpleDirection) Generate(_ model.IndicatorSet, mv model.Movement) model.Decision {
	if mv.Direction == model.DirectionInsufficient || mv.PercentChange == nil {
		return insufficient("fewer than 2 closes")
	}
	return model.Decision{
		Signal:      model.SignalHold,
		Label:       string(mv.Direction),
		Explanation: fmt.Sprintf("price moved %s (%+.2f%%)", mv.Direction, *mv.PercentChange),
	}
}

// AlertWorthy: every determinate movement is reported.
func (SimpleDirection) AlertWorthy(sig model.Signal) bool {
	return sig != model.SignalInsufficientData
}
