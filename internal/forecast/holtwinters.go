package forecast

import (
	"errors"
	"fmt"
	"math"
)

// seasonalPeriod is twelve months: spending patterns repeat yearly.
const seasonalPeriod = 12

var errShortHistory = errors.New("not enough history for seasonal model")

// HoltWinters is additive triple exponential smoothing with a fixed
// parameter set. It needs at least two full seasons of history.
type HoltWinters struct {
	Alpha  float64
	Beta   float64
	Gamma  float64
	Period int
}

func (h *HoltWinters) Name() string {
	return fmt.Sprintf("holt-winters(a=%.2f,b=%.2f,g=%.2f)", h.Alpha, h.Beta, h.Gamma)
}

func (h *HoltWinters) Forecast(history []float64, periods int) ([]float64, error) {
	return holtWintersAdditive(history, h.Alpha, h.Beta, h.Gamma, h.Period, periods)
}

// AutoHoltWinters grid-searches smoothing parameters, scoring each candidate
// by in-sample one-step-ahead squared error, and forecasts with the winner.
type AutoHoltWinters struct {
	Period int
}

func (a *AutoHoltWinters) Name() string {
	return "auto-holt-winters"
}

func (a *AutoHoltWinters) Forecast(history []float64, periods int) ([]float64, error) {
	if len(history) < 2*a.Period {
		return nil, errShortHistory
	}

	grid := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	bestSSE := math.Inf(1)
	var bestAlpha, bestBeta, bestGamma float64
	found := false

	for _, alpha := range grid {
		for _, beta := range grid {
			for _, gamma := range grid {
				sse, err := holtWintersSSE(history, alpha, beta, gamma, a.Period)
				if err != nil {
					continue
				}
				if sse < bestSSE {
					bestSSE = sse
					bestAlpha, bestBeta, bestGamma = alpha, beta, gamma
					found = true
				}
			}
		}
	}
	if !found {
		return nil, errors.New("no parameter set fit the series")
	}

	return holtWintersAdditive(history, bestAlpha, bestBeta, bestGamma, a.Period, periods)
}

// Naive repeats the last observed value, or projects zero with no history.
// It is the terminal stage of the chain and cannot fail.
type Naive struct{}

func (Naive) Name() string {
	return "naive"
}

func (Naive) Forecast(history []float64, periods int) ([]float64, error) {
	last := 0.0
	if len(history) > 0 {
		last = history[len(history)-1]
	}
	out := make([]float64, periods)
	for i := range out {
		out[i] = last
	}
	return out, nil
}

type hwState struct {
	level     float64
	trend     float64
	seasonals []float64
}

func holtWintersInit(series []float64, period int) (hwState, error) {
	if period < 2 {
		return hwState{}, errors.New("seasonal period must be at least 2")
	}
	if len(series) < 2*period {
		return hwState{}, errShortHistory
	}

	var first, second float64
	for i := 0; i < period; i++ {
		first += series[i]
		second += series[period+i]
	}
	first /= float64(period)
	second /= float64(period)

	seasons := len(series) / period
	seasonals := make([]float64, period)
	for i := 0; i < period; i++ {
		var dev float64
		for s := 0; s < seasons; s++ {
			var avg float64
			for j := 0; j < period; j++ {
				avg += series[s*period+j]
			}
			avg /= float64(period)
			dev += series[s*period+i] - avg
		}
		seasonals[i] = dev / float64(seasons)
	}

	return hwState{
		level:     first,
		trend:     (second - first) / float64(period),
		seasonals: seasonals,
	}, nil
}

func (st *hwState) step(value float64, alpha, beta, gamma float64, idx int) float64 {
	predicted := st.level + st.trend + st.seasonals[idx]
	lastLevel := st.level
	st.level = alpha*(value-st.seasonals[idx]) + (1-alpha)*(st.level+st.trend)
	st.trend = beta*(st.level-lastLevel) + (1-beta)*st.trend
	st.seasonals[idx] = gamma*(value-st.level) + (1-gamma)*st.seasonals[idx]
	return predicted
}

func holtWintersAdditive(series []float64, alpha, beta, gamma float64, period, periods int) ([]float64, error) {
	st, err := holtWintersInit(series, period)
	if err != nil {
		return nil, err
	}
	for i, v := range series {
		st.step(v, alpha, beta, gamma, i%period)
	}

	out := make([]float64, periods)
	for m := 1; m <= periods; m++ {
		idx := (len(series) + m - 1) % period
		out[m-1] = st.level + float64(m)*st.trend + st.seasonals[idx]
	}
	return out, nil
}

func holtWintersSSE(series []float64, alpha, beta, gamma float64, period int) (float64, error) {
	st, err := holtWintersInit(series, period)
	if err != nil {
		return 0, err
	}
	var sse float64
	for i, v := range series {
		predicted := st.step(v, alpha, beta, gamma, i%period)
		diff := v - predicted
		sse += diff * diff
	}
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return 0, errors.New("model diverged")
	}
	return sse, nil
}
