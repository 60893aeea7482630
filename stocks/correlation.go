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
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Alignment decides which daily changes of two tickers are paired.
type Alignment int

const (
	// AlignByDate pairs changes that end on the same date.
	AlignByDate Alignment = iota
	// AlignByPosition pairs the i-th change of each ticker regardless of date.
	AlignByPosition
)

func (a Alignment) String() string {
	switch a {
	case AlignByDate:
		return "date"
	case AlignByPosition:
		return "position"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// ParseAlignment accepts "date" (or empty) and "position".
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date":
		return AlignByDate, nil
	case "position":
		return AlignByPosition, nil
	default:
		return AlignByDate, fmt.Errorf("unknown correlation alignment %q (use: date, position)", s)
	}
}

// CorrelationMatrix is a symmetric matrix of Pearson correlations.
type CorrelationMatrix struct {
	Tickers []string
	Values  [][]float64
}

// At returns the correlation between tickers i and j.
func (c *CorrelationMatrix) At(i, j int) float64 {
	return c.Values[i][j]
}

// Empty reports whether there is nothing to correlate.
func (c *CorrelationMatrix) Empty() bool {
	return c == nil || len(c.Tickers) == 0
}

// Correlation computes the pairwise correlation of daily changes using only
// observations present for both tickers. Pairs with fewer than two such
// observations, or without variance, are NaN.
func (m *DailyReturnMatrix) Correlation(align Alignment) *CorrelationMatrix {
	n := len(m.Tickers)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			x, y := pairChanges(m.Changes[m.Tickers[i]], m.Changes[m.Tickers[j]], align)
			corr := correlate(x, y)
			if i == j && !math.IsNaN(corr) {
				corr = 1
			}
			values[i][j] = corr
			values[j][i] = corr
		}
	}

	return &CorrelationMatrix{
		Tickers: append([]string(nil), m.Tickers...),
		Values:  values,
	}
}

// pairChanges returns the pairwise complete observations of a and b. Pairs
// where either change is undefined are dropped.
func pairChanges(a, b []DailyChange, align Alignment) ([]float64, []float64) {
	x := make([]float64, 0, min(len(a), len(b)))
	y := make([]float64, 0, min(len(a), len(b)))
	keep := func(u, v float64) {
		if isFinite(u) && isFinite(v) {
			x = append(x, u)
			y = append(y, v)
		}
	}

	if align == AlignByPosition {
		for idx := 0; idx < min(len(a), len(b)); idx++ {
			keep(a[idx].Value, b[idx].Value)
		}
		return x, y
	}

	byDate := make(map[string]float64, len(b))
	for _, c := range b {
		byDate[c.Date] = c.Value
	}
	for _, c := range a {
		if v, ok := byDate[c.Date]; ok {
			keep(c.Value, v)
		}
	}
	return x, y
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func correlate(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
