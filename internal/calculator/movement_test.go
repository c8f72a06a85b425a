package calculator

import (
	"errors"
	"testing"

	"PriceSentinel/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		dir    model.Direction
		pct    float64
	}{
		{"down", []float64{100, 95}, model.DirectionDown, -5},
		{"up", []float64{90, 100, 110}, model.DirectionUp, 10},
		{"flat", []float64{100, 100}, model.DirectionFlat, 0},
	}
	for _, tt := range tests {
		m, err := Classify(seriesOf(tt.closes...))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if m.Direction != tt.dir {
			t.Errorf("%s: direction %s, want %s", tt.name, m.Direction, tt.dir)
		}
		if m.PercentChange == nil {
			t.Fatalf("%s: expected percent change", tt.name)
		}
		assertClose(t, tt.name, *m.PercentChange, tt.pct, 1e-9)
	}
}

func TestClassify_Insufficient(t *testing.T) {
	for _, s := range []*model.PriceSeries{nil, seriesOf(), seriesOf(100)} {
		m, err := Classify(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Direction != model.DirectionInsufficient || m.PercentChange != nil {
			t.Errorf("expected INSUFFICIENT without percent change, got %+v", m)
		}
	}
}

func TestClassify_ZeroPrevious(t *testing.T) {
	_, err := Classify(seriesOf(0, 5))
	if !errors.Is(err, model.ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput, got %v", err)
	}
}
