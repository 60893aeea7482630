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
	"testing"
)

func tickers(metrics []TickerMetrics) []string {
	out := make([]string, len(metrics))
	for idx, m := range metrics {
		out[idx] = m.Ticker
	}
	return out
}

func sameTickers(t *testing.T, name string, got []TickerMetrics, want []string) {
	t.Helper()
	names := tickers(got)
	if len(names) != len(want) {
		t.Fatalf("%s = %v, want %v", name, names, want)
	}
	for idx := range want {
		if names[idx] != want[idx] {
			t.Fatalf("%s = %v, want %v", name, names, want)
		}
	}
}

var rankedMetrics = []TickerMetrics{
	{Ticker: "A", AnnualReturn: 0.1, StdDev: 0.02, CumReturn: 0.3},
	{Ticker: "B", AnnualReturn: math.NaN(), StdDev: math.NaN(), CumReturn: 0},
	{Ticker: "C", AnnualReturn: 0.1, StdDev: 0.05, CumReturn: 0.1},
	{Ticker: "D", AnnualReturn: -0.2, StdDev: 0.01, CumReturn: -0.4},
	{Ticker: "E", AnnualReturn: 0, StdDev: 0.03, CumReturn: 0.2},
}

func TestTopGainersAndDecliners(t *testing.T) {
	sameTickers(t, "TopGainers", TopGainers(rankedMetrics, 10), []string{"A", "C", "E", "D", "B"})
	sameTickers(t, "TopDecliners", TopDecliners(rankedMetrics, 10), []string{"D", "E", "A", "C", "B"})
	sameTickers(t, "TopGainers(2)", TopGainers(rankedMetrics, 2), []string{"A", "C"})

	if rankedMetrics[0].Ticker != "A" || rankedMetrics[1].Ticker != "B" {
		t.Errorf("ranking must not reorder its input")
	}
}

func TestBuildKeyMetrics(t *testing.T) {
	km := BuildKeyMetrics(rankedMetrics)
	if km.Green != 2 || km.Red != 1 {
		t.Errorf("green/red = %d/%d, want 2/1", km.Green, km.Red)
	}
	if len(km.All) != len(rankedMetrics) {
		t.Errorf("All has %d rows, want %d", len(km.All), len(rankedMetrics))
	}
}

func TestMostVolatileAndCumulative(t *testing.T) {
	sameTickers(t, "MostVolatile", MostVolatile(rankedMetrics), []string{"C", "E", "A", "D", "B"})
	sameTickers(t, "TopCumulativeReturn", TopCumulativeReturn(rankedMetrics), []string{"A", "E", "C", "B", "D"})
}

func TestParseView(t *testing.T) {
	for _, v := range AllViews() {
		got, err := ParseView(v.String())
		if err != nil || got != v {
			t.Errorf("ParseView(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseView("heatmap"); err == nil {
		t.Errorf("ParseView(heatmap) expected an error")
	}
	if len(AllViews()) != 6 {
		t.Errorf("AllViews() has %d views, want 6", len(AllViews()))
	}
	if MonthlyMoversView.Title() != "Top 5 Gainers and Losers" {
		t.Errorf("MonthlyMoversView.Title() = %q", MonthlyMoversView.Title())
	}
}
