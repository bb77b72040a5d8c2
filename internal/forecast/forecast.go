// Package forecast projects monthly spend a few periods ahead.
//
// The model itself is swappable: anything implementing Forecaster can be
// plugged in ahead of the built-in chain. Every stage catches its own
// failures and the adapter falls through to the next, ending at a naive
// projection that cannot fail, so forecast unavailability only ever degrades
// quality, never the pipeline.
package forecast

import (
	"fintrend/internal/budget"
	"fintrend/internal/log"
)

// Forecaster produces point forecasts for the given number of periods.
type Forecaster interface {
	Name() string
	Forecast(history []float64, periods int) ([]float64, error)
}

// Adapter owns the degradation chain. Stages are tried in order; the first
// success wins.
type Adapter struct {
	chain  []Forecaster
	logger *log.Logger
}

// NewAdapter builds the default chain, optionally prefixed by external
// forecasters: extra... -> auto-fit Holt-Winters -> fixed Holt-Winters ->
// naive flat projection.
func NewAdapter(logger *log.Logger, extra ...Forecaster) *Adapter {
	chain := append([]Forecaster{}, extra...)
	chain = append(chain,
		&AutoHoltWinters{Period: seasonalPeriod},
		&HoltWinters{Alpha: 0.3, Beta: 0.1, Gamma: 0.1, Period: seasonalPeriod},
		Naive{},
	)
	return &Adapter{chain: chain, logger: logger}
}

// Forecast resamples nothing itself; it takes the monthly spend series from
// the budget aggregation and returns (history, forecast), with the forecast
// starting the month after the last historical point. Negative point
// forecasts clip to zero since the series is a spend magnitude.
func (a *Adapter) Forecast(series []budget.MonthlySpend, periods int) ([]budget.MonthlySpend, []budget.MonthlySpend) {
	history := make([]float64, len(series))
	for i, m := range series {
		history[i] = m.Spend
	}

	var points []float64
	for _, f := range a.chain {
		fc, err := f.Forecast(history, periods)
		if err != nil {
			if a.logger != nil {
				a.logger.Debug("forecast stage failed, degrading",
					log.FieldModel, f.Name(), log.FieldError, err.Error())
			}
			continue
		}
		if a.logger != nil {
			a.logger.Debug("forecast stage succeeded", log.FieldModel, f.Name())
		}
		points = fc
		break
	}
	// The naive stage never errors, but guard the empty chain anyway.
	if points == nil {
		points = make([]float64, periods)
	}

	out := make([]budget.MonthlySpend, len(points))
	for i, v := range points {
		if v < 0 {
			v = 0
		}
		out[i] = budget.MonthlySpend{Spend: v}
		if len(series) > 0 {
			out[i].Month = series[len(series)-1].Month.AddDate(0, i+1, 0)
		}
	}
	return series, out
}
