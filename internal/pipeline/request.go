// Package pipeline runs the per-symbol analysis over a batch of symbols.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"PriceSentinel/internal/model"
	"PriceSentinel/internal/strategy"
)

// Request is one analysis invocation.
type Request struct {
	Symbols   []string
	Start     time.Time // inclusive
	End       time.Time // inclusive, no later than yesterday
	Recipient string    // empty disables alerts
	Strategy  model.StrategyKind
}

// ParseSymbols splits a comma-separated list, trimming and upper-casing each
// entry. Empty entries are dropped; duplicates are kept.
func ParseSymbols(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		s := strings.ToUpper(strings.TrimSpace(part))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Yesterday returns the calendar day before now, at midnight UTC.
func Yesterday(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, time.UTC)
}

// Validate checks the request against the invocation time.
func (r Request) Validate(now time.Time) error {
	var errs []error
	if len(r.Symbols) == 0 {
		errs = append(errs, errors.New("no symbols given"))
	}
	if r.Start.IsZero() || r.End.IsZero() {
		errs = append(errs, errors.New("start and end dates are required"))
	} else {
		start, end := dateOf(r.Start), dateOf(r.End)
		if start.After(end) {
			errs = append(errs, fmt.Errorf("start %s is after end %s", start.Format(dateLayout), end.Format(dateLayout)))
		}
		if yesterday := Yesterday(now); end.After(yesterday) {
			errs = append(errs, fmt.Errorf("end %s is after yesterday (%s)", end.Format(dateLayout), yesterday.Format(dateLayout)))
		}
	}
	if _, err := strategy.New(r.Strategy, strategy.Options{}); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid request: %w", errors.Join(errs...))
	}
	return nil
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
