package model

import "time"

// SummaryStatus tells whether a symbol's pipeline produced an analysis.
type SummaryStatus string

const (
	StatusOK      SummaryStatus = "ok"
	StatusSkipped SummaryStatus = "skipped"
)

// Summary is the per-symbol output of one analysis invocation. It carries no
// wall-clock data, so identical inputs marshal to identical bytes.
type Summary struct {
	Symbol      string          `json:"symbol"`
	Status      SummaryStatus   `json:"status"`
	ErrorKind   string          `json:"error_kind,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
	Strategy    StrategyKind    `json:"strategy"`
	LatestClose float64         `json:"latest_close"`
	LatestDate  time.Time       `json:"latest_date"`
	Movement    Movement        `json:"movement"`
	Indicators  IndicatorSet    `json:"indicators"`
	Decision    Decision        `json:"decision"`
	Dispatch    DispatchOutcome `json:"dispatch"`
	Chart       []ChartPoint    `json:"chart,omitempty"`
}
