package forecast

import (
	"math"
	"testing"
	"time"

	"fintrend/internal/budget"
)

func monthSeries(start time.Time, values []float64) []budget.MonthlySpend {
	out := make([]budget.MonthlySpend, len(values))
	for i, v := range values {
		out[i] = budget.MonthlySpend{Month: start.AddDate(0, i, 0), Spend: v}
	}
	return out
}

func TestNaiveForecast(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		periods int
		want    []float64
	}{
		{"repeats last value", []float64{100, 200, 300}, 3, []float64{300, 300, 300}},
		{"empty history projects zero", nil, 2, []float64{0, 0}},
		{"single point", []float64{42}, 1, []float64{42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Naive{}.Forecast(tt.history, tt.periods)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d points, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHoltWintersShortHistory(t *testing.T) {
	hw := &HoltWinters{Alpha: 0.3, Beta: 0.1, Gamma: 0.1, Period: seasonalPeriod}
	if _, err := hw.Forecast(make([]float64, 23), 3); err == nil {
		t.Error("expected error with fewer than two seasons of history")
	}

	auto := &AutoHoltWinters{Period: seasonalPeriod}
	if _, err := auto.Forecast(make([]float64, 23), 3); err == nil {
		t.Error("expected error with fewer than two seasons of history")
	}
}

func TestHoltWintersConstantSeries(t *testing.T) {
	history := make([]float64, 36)
	for i := range history {
		history[i] = 5000
	}
	hw := &HoltWinters{Alpha: 0.3, Beta: 0.1, Gamma: 0.1, Period: seasonalPeriod}
	got, err := hw.Forecast(history, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got {
		if math.Abs(v-5000) > 1 {
			t.Errorf("point %d = %v, want ~5000", i, v)
		}
	}
}

func TestAutoHoltWintersSeasonalSeries(t *testing.T) {
	// Repeating yearly shape over three years.
	shape := []float64{100, 120, 90, 110, 130, 150, 140, 120, 100, 110, 160, 200}
	var history []float64
	for y := 0; y < 3; y++ {
		history = append(history, shape...)
	}
	auto := &AutoHoltWinters{Period: seasonalPeriod}
	got, err := auto.Forecast(history, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("got %d points, want 12", len(got))
	}
	// A perfectly repeating series should forecast close to the shape.
	for i, v := range got {
		if math.Abs(v-shape[i]) > 30 {
			t.Errorf("point %d = %v, want within 30 of %v", i, v, shape[i])
		}
	}
}

func TestAdapterDegradesToNaive(t *testing.T) {
	series := monthSeries(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), []float64{1000, 2000, 1500})
	adapter := NewAdapter(nil)
	history, fc := adapter.Forecast(series, 3)
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if len(fc) != 3 {
		t.Fatalf("forecast length = %d, want 3", len(fc))
	}
	// Too short for any seasonal model, so the naive stage repeats the
	// last value.
	for i, p := range fc {
		if p.Spend != 1500 {
			t.Errorf("point %d = %v, want 1500", i, p.Spend)
		}
	}
}

func TestAdapterForecastMonths(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := monthSeries(start, []float64{100, 200, 300})
	adapter := NewAdapter(nil)
	_, fc := adapter.Forecast(series, 2)

	want := []time.Time{
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, p := range fc {
		if !p.Month.Equal(want[i]) {
			t.Errorf("month %d = %v, want %v", i, p.Month, want[i])
		}
	}
}

func TestAdapterClipsNegativeForecasts(t *testing.T) {
	adapter := NewAdapter(nil, stubForecaster{points: []float64{-50, 120}})
	series := monthSeries(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), []float64{100})
	_, fc := adapter.Forecast(series, 2)
	if fc[0].Spend != 0 {
		t.Errorf("negative forecast not clipped: got %v", fc[0].Spend)
	}
	if fc[1].Spend != 120 {
		t.Errorf("positive forecast altered: got %v", fc[1].Spend)
	}
}

type stubForecaster struct {
	points []float64
}

func (stubForecaster) Name() string { return "stub" }

func (s stubForecaster) Forecast(history []float64, periods int) ([]float64, error) {
	return s.points, nil
}
