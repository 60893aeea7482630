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
	"strings"
)

// View is one of the fixed report views.
type View int

const (
	KeyMetricsView View = iota
	VolatilityView
	CumulativeReturnView
	SectorPerformanceView
	CorrelationView
	MonthlyMoversView
)

var viewNames = [...]string{
	KeyMetricsView:        "key-metrics",
	VolatilityView:        "volatility",
	CumulativeReturnView:  "cumulative-return",
	SectorPerformanceView: "sector-performance",
	CorrelationView:       "correlation",
	MonthlyMoversView:     "monthly-movers",
}

var viewTitles = [...]string{
	KeyMetricsView:        "Key Metrics",
	VolatilityView:        "Volatility Analysis",
	CumulativeReturnView:  "Cumulative Return Over Time",
	SectorPerformanceView: "Sector-wise Performance",
	CorrelationView:       "Stock Price Correlation",
	MonthlyMoversView:     "Top 5 Gainers and Losers",
}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// Title is the human readable heading of the view.
func (v View) Title() string {
	if v < 0 || int(v) >= len(viewTitles) {
		return v.String()
	}
	return viewTitles[v]
}

// AllViews lists the views in navigation order.
func AllViews() []View {
	views := make([]View, len(viewNames))
	for idx := range viewNames {
		views[idx] = View(idx)
	}
	return views
}

// ParseView resolves a view by name.
func ParseView(s string) (View, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for idx, n := range viewNames {
		if n == name {
			return View(idx), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q (use one of: %s)", s, strings.Join(viewNames[:], ", "))
}

const (
	topTickersCount    = 10
	topVolatileCount   = 10
	topCumulativeCount = 5
)

// KeyMetrics is the market snapshot view.
type KeyMetrics struct {
	TopGainers   []TickerMetrics
	TopDecliners []TickerMetrics
	Green        int
	Red          int
	All          []TickerMetrics
}

func annualReturn(m TickerMetrics) float64 { return m.AnnualReturn }
func stdDev(m TickerMetrics) float64       { return m.StdDev }
func cumReturn(m TickerMetrics) float64    { return m.CumReturn }

// TopGainers sorts by annual return descending; ties keep first-seen order.
func TopGainers(metrics []TickerMetrics, n int) []TickerMetrics {
	return head(sortedBy(metrics, annualReturn, true), n)
}

// TopDecliners sorts by annual return ascending; ties keep first-seen order.
func TopDecliners(metrics []TickerMetrics, n int) []TickerMetrics {
	return head(sortedBy(metrics, annualReturn, false), n)
}

// BuildKeyMetrics assembles the key metrics view.
func BuildKeyMetrics(metrics []TickerMetrics) KeyMetrics {
	km := KeyMetrics{
		TopGainers:   TopGainers(metrics, topTickersCount),
		TopDecliners: TopDecliners(metrics, topTickersCount),
		All:          metrics,
	}
	for _, m := range metrics {
		switch {
		case m.AnnualReturn > 0:
			km.Green++
		case m.AnnualReturn < 0:
			km.Red++
		}
	}
	return km
}

// MostVolatile ranks tickers by standard deviation of daily changes.
func MostVolatile(metrics []TickerMetrics) []TickerMetrics {
	return head(sortedBy(metrics, stdDev, true), topVolatileCount)
}

// TopCumulativeReturn ranks tickers by the sum of their daily changes.
func TopCumulativeReturn(metrics []TickerMetrics) []TickerMetrics {
	return head(sortedBy(metrics, cumReturn, true), topCumulativeCount)
}
