package budget

import (
	"sort"
	"time"

	"fintrend/internal/core"
)

// MonthlySpend is one month of positive spend magnitude.
type MonthlySpend struct {
	Month time.Time // first day of the month, UTC
	Spend float64
}

// CategoryMonthSpend is per-month, per-category positive spend.
type CategoryMonthSpend struct {
	Month    string
	Category string
	Spend    float64
}

// MonthlyTotalSpend resamples transactions into a continuous month-start
// indexed series of positive spend. Months with no transactions are present
// with zero spend; months whose net signed sum is an inflow clip to zero.
func MonthlyTotalSpend(txs []core.Transaction) []MonthlySpend {
	if len(txs) == 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	first, last := monthStart(txs[0].Date.Time), monthStart(txs[0].Date.Time)
	for _, tx := range txs {
		m := monthStart(tx.Date.Time)
		sums[m] += tx.SignedAmount()
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	var out []MonthlySpend
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		spend := -sums[m]
		if spend < 0 {
			spend = 0
		}
		out = append(out, MonthlySpend{Month: m, Spend: spend})
	}
	return out
}

// MonthlyCategorySpend groups outflow records by month and category, sorted
// by month then spend descending.
func MonthlyCategorySpend(txs []core.Transaction) []CategoryMonthSpend {
	type key struct {
		month    string
		category string
	}
	sums := make(map[key]float64)
	for _, tx := range txs {
		if !tx.IsOutflow() {
			continue
		}
		sums[key{tx.Date.MonthKey(), tx.Category}] += -tx.SignedAmount()
	}

	out := make([]CategoryMonthSpend, 0, len(sums))
	for k, spend := range sums {
		out = append(out, CategoryMonthSpend{Month: k.month, Category: k.category, Spend: spend})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TrailingAverage computes the comparison baseline: the mean of up to n
// months preceding the final (current, possibly partial) month. With fewer
// prior months it averages what exists; with none it returns 0.
func TrailingAverage(series []MonthlySpend, n int) float64 {
	if len(series) <= 1 || n <= 0 {
		return 0
	}
	prior := series[:len(series)-1]
	if len(prior) > n {
		prior = prior[len(prior)-n:]
	}
	var sum float64
	for _, m := range prior {
		sum += m.Spend
	}
	return sum / float64(len(prior))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
