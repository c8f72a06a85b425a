package model

import (
	"fmt"
	"time"
)

// Signal is the discrete recommendation produced by a strategy.
type Signal string

const (
	SignalBuy              Signal = "BUY"
	SignalSell             Signal = "SELL"
	SignalHold             Signal = "HOLD"
	SignalInsufficientData Signal = "INSUFFICIENT_DATA"
)

// Direction is the latest-vs-previous close movement.
type Direction string

const (
	DirectionUp           Direction = "UP"
	DirectionDown         Direction = "DOWN"
	DirectionFlat         Direction = "FLAT"
	DirectionInsufficient Direction = "INSUFFICIENT"
)

// Movement describes how the latest close moved against the previous one.
type Movement struct {
	Direction     Direction `json:"direction"`
	PercentChange *float64  `json:"percent_change"`
}

// RSIStatus is the advisory momentum reading reported by the crossover strategy.
type RSIStatus string

const (
	RSIOverbought RSIStatus = "Overbought"
	RSIOversold   RSIStatus = "Oversold"
	RSINormal     RSIStatus = "Normal"
	RSIUnknown    RSIStatus = ""
)

// StrategyKind names a selectable signal policy.
type StrategyKind string

const (
	StrategySimple    StrategyKind = "simple"
	StrategyThreshold StrategyKind = "threshold"
	StrategyCrossover StrategyKind = "crossover"
)

// Decision is the output of a strategy for the latest point of a series.
type Decision struct {
	Signal      Signal    `json:"signal"`
	Label       string    `json:"label"` // text used in alert subjects: the signal, or the direction for simple
	RSIStatus   RSIStatus `json:"rsi_status,omitempty"`
	Explanation string    `json:"explanation"`
}

// AlertEvent is the immutable value handed to the dispatcher for one analysis run.
type AlertEvent struct {
	Symbol        string
	Strategy      StrategyKind
	Signal        Signal
	Label         string
	LatestClose   float64
	PercentChange *float64
	RSI           *float64
	RSIStatus     RSIStatus
	Timestamp     time.Time
}

// DispatchStatus is the coarse result of an alert dispatch.
type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "SENT"
	DispatchSkipped DispatchStatus = "SKIPPED"
	DispatchFailed  DispatchStatus = "FAILED"
)

// Skip reasons.
const (
	SkipNoRecipient      = "NoRecipient"
	SkipInsufficientData = "InsufficientData"
	SkipNotAlertWorthy   = "NotAlertWorthy"
)

// DispatchOutcome reports what the dispatcher did with an AlertEvent.
type DispatchOutcome struct {
	Status DispatchStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
}

// String renders the outcome as "Sent", "Skipped:<reason>" or "Failed:<reason>".
func (o DispatchOutcome) String() string {
	switch o.Status {
	case DispatchSent:
		return "Sent"
	case DispatchSkipped:
		return "Skipped:" + o.Reason
	case DispatchFailed:
		return "Failed:" + o.Reason
	default:
		return fmt.Sprintf("%s:%s", o.Status, o.Reason)
	}
}

// Skipped builds a skipped outcome.
func Skipped(reason string) DispatchOutcome {
	return DispatchOutcome{Status: DispatchSkipped, Reason: reason}
}

// Failed builds a failed outcome.
func Failed(reason string) DispatchOutcome {
	return DispatchOutcome{Status: DispatchFailed, Reason: reason}
}

// Sent is the outcome of a delivered alert.
var Sent = DispatchOutcome{Status: DispatchSent}
