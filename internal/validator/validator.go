// Package validator turns a provider's raw bars into a clean PriceSeries.
package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"PriceSentinel/internal/model"
)

// Validate cleans a raw series: bars whose close is null or not numeric are
// dropped, bars are sorted by date and later duplicates of a date replace
// earlier ones. Fails with model.ErrEmptyOrInvalidData when nothing usable remains.
func Validate(raw *model.RawSeries) (*model.PriceSeries, error) {
	if raw == nil || len(raw.Bars) == 0 {
		return nil, fmt.Errorf("%w: no bars returned", model.ErrEmptyOrInvalidData)
	}
	if !raw.HasClose {
		return nil, fmt.Errorf("%w: no close price column", model.ErrEmptyOrInvalidData)
	}

	bars := make([]model.OHLCV, 0, len(raw.Bars))
	for _, rb := range raw.Bars {
		c, ok := toFloat(rb.Close)
		if !ok {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   rb.Time,
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  c,
			Volume: rb.Volume,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: all %d bars have no close", model.ErrEmptyOrInvalidData, len(raw.Bars))
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	// Collapse duplicate dates, keeping the last reported bar.
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && sameDay(out[n-1], b) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}

	return &model.PriceSeries{Symbol: raw.Symbol, Bars: out}, nil
}

func sameDay(a, b model.OHLCV) bool {
	ay, am, ad := a.Time.Date()
	by, bm, bd := b.Time.Date()
	return ay == by && am == bm && ad == bd
}

// toFloat coerces a close value; false means the value counts as null.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
