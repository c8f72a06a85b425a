package notifier

import (
	"fmt"
	"strings"

	"PriceSentinel/internal/model"
)

// FormatSubject builds the alert subject: "[SYMBOL] LABEL".
func FormatSubject(evt model.AlertEvent) string {
	return fmt.Sprintf("[%s] %s", evt.Symbol, evt.Label)
}

// FormatBody builds the alert body. Output depends only on evt.
func FormatBody(evt model.AlertEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest close for %s: %.2f (%s)\n", evt.Symbol, evt.LatestClose, evt.Timestamp.Format("2006-01-02"))
	if evt.PercentChange != nil {
		fmt.Fprintf(&b, "Percent change: %+.2f%%\n", *evt.PercentChange)
	}
	if evt.Strategy == model.StrategyCrossover && evt.RSI != nil {
		fmt.Fprintf(&b, "RSI(14): %.2f (%s)\n", *evt.RSI, evt.RSIStatus)
	}
	fmt.Fprintf(&b, "Signal: %s", evt.Label)
	if evt.Label != string(evt.Signal) {
		fmt.Fprintf(&b, " (%s)", evt.Signal)
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSummary renders one symbol's summary as plain text.
func FormatSummary(s model.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Symbol)
	if s.Status == model.StatusSkipped {
		fmt.Fprintf(&b, "  skipped (%s)\n", s.ErrorKind)
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "  warning: %s\n", w)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "  latest close: %.2f (%s)\n", s.LatestClose, s.LatestDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "  movement: %s", s.Movement.Direction)
	if s.Movement.PercentChange != nil {
		fmt.Fprintf(&b, " %+.2f%%", *s.Movement.PercentChange)
	}
	b.WriteString("\n")

	ind := s.Indicators
	fmt.Fprintf(&b, "  SMA20: %s  SMA50: %s  RSI14: %s\n", opt(ind.SMA20), opt(ind.SMA50), opt(ind.RSI14))
	fmt.Fprintf(&b, "  MACD diff: %s  Bollinger: %s / %s\n", opt(ind.MACDDiff), opt(ind.BollingerLower), opt(ind.BollingerUpper))

	fmt.Fprintf(&b, "  signal (%s): %s", s.Strategy, s.Decision.Label)
	if s.Decision.RSIStatus != model.RSIUnknown {
		fmt.Fprintf(&b, " [RSI %s]", s.Decision.RSIStatus)
	}
	b.WriteString("\n")
	if s.Decision.Explanation != "" {
		fmt.Fprintf(&b, "  why: %s\n", s.Decision.Explanation)
	}
	fmt.Fprintf(&b, "  alert: %s\n", s.Dispatch)
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}

// FormatReport renders several summaries separated by blank lines.
func FormatReport(summaries []model.Summary) string {
	parts := make([]string, len(summaries))
	for i, s := range summaries {
		parts[i] = FormatSummary(s)
	}
	return strings.Join(parts, "\n")
}

func opt(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
