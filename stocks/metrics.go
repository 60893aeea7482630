/*
Copyright 2024

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package stocks

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeMetrics summarizes every ticker of the table in first-seen order and
// collects the day-over-day changes used for correlation.
func ComputeMetrics(table UnifiedTable) ([]TickerMetrics, *DailyReturnMatrix) {
	tickers, groups := table.GroupByTicker()

	metrics := make([]TickerMetrics, 0, len(tickers))
	matrix := &DailyReturnMatrix{
		Tickers: make([]string, 0, len(tickers)),
		Changes: make(map[string][]DailyChange, len(tickers)),
	}

	for _, ticker := range tickers {
		rows := groups[ticker]
		if len(rows) == 0 {
			continue
		}
		m, changes := tickerMetrics(ticker, rows)
		metrics = append(metrics, m)
		matrix.Tickers = append(matrix.Tickers, ticker)
		matrix.Changes[ticker] = changes
	}

	return metrics, matrix
}

func tickerMetrics(ticker string, rows []PriceRecord) (TickerMetrics, []DailyChange) {
	startPrice := rows[0].Open
	closePrice := rows[len(rows)-1].Close

	closes := make([]float64, len(rows))
	volumes := make([]float64, 0, len(rows))
	for idx, r := range rows {
		closes[idx] = r.Close
		if r.Volume.Valid {
			volumes = append(volumes, r.Volume.Float64)
		}
	}

	changes := DailyChanges(rows)
	values := make([]float64, len(changes))
	for idx, c := range changes {
		values[idx] = c.Value
	}

	return TickerMetrics{
		Ticker:       ticker,
		StartPrice:   startPrice,
		ClosePrice:   closePrice,
		AnnualReturn: ratioReturn(startPrice, closePrice),
		AvgPrice:     round2(stat.Mean(closes, nil)),
		AvgVolume:    mean(volumes),
		StdDev:       sampleStdDev(values),
		CumReturn:    floats.Sum(values),
		Rows:         len(rows),
	}, changes
}

// DailyChanges returns the close-to-close percentage change for each pair of
// adjacent rows, dated on the later row. The first row has no change. A change
// from a zero close is undefined and kept as NaN so positions line up with the
// rows.
func DailyChanges(rows []PriceRecord) []DailyChange {
	changes := make([]DailyChange, 0, len(rows))
	for idx := 1; idx < len(rows); idx++ {
		prev := rows[idx-1].Close
		value := math.NaN()
		if prev != 0 {
			value = (rows[idx].Close - prev) / prev
		}
		changes = append(changes, DailyChange{
			Date:  rows[idx].Date,
			Value: value,
		})
	}
	return changes
}

// ratioReturn is to/from - 1, NaN when from is zero.
func ratioReturn(from, to float64) float64 {
	if from == 0 {
		return math.NaN()
	}
	return to/from - 1
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// sampleStdDev uses the n-1 denominator; it needs at least two samples.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
