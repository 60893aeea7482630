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
	"github.com/guregu/null/v5"
)

// PriceRecord is one trading day of a single ticker as found in a source file.
type PriceRecord struct {
	Ticker    string
	Date      string
	Month     string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    null.Float
	Partition string
	Source    string
}

// UnifiedTable holds every record of every partition in load order: partition
// order, then file name order, then row order within the file.
type UnifiedTable []PriceRecord

// Tickers returns the distinct tickers in the order they are first seen.
func (t UnifiedTable) Tickers() []string {
	seen := make(map[string]bool)
	tickers := make([]string, 0)
	for _, r := range t {
		if !seen[r.Ticker] {
			seen[r.Ticker] = true
			tickers = append(tickers, r.Ticker)
		}
	}
	return tickers
}

// GroupByTicker splits the table into per-ticker row slices, preserving the
// original row order inside each group.
func (t UnifiedTable) GroupByTicker() ([]string, map[string][]PriceRecord) {
	tickers := t.Tickers()
	groups := make(map[string][]PriceRecord, len(tickers))
	for _, r := range t {
		groups[r.Ticker] = append(groups[r.Ticker], r)
	}
	return tickers, groups
}

// TickerMetrics summarizes the full observed range of one ticker.
type TickerMetrics struct {
	Ticker       string
	StartPrice   float64
	ClosePrice   float64
	AnnualReturn float64
	AvgPrice     float64
	AvgVolume    float64
	StdDev       float64
	CumReturn    float64
	Rows         int
	Sector       null.String
}

// DailyChange is the close-to-close percentage change ending on Date.
type DailyChange struct {
	Date  string
	Value float64
}

// DailyReturnMatrix holds the defined day-over-day changes of every ticker.
type DailyReturnMatrix struct {
	Tickers []string
	Changes map[string][]DailyChange
}

// MonthlyReturn is the open-to-close return of a ticker inside one month.
type MonthlyReturn struct {
	Ticker      string
	Month       string
	MonthOpen   float64
	MonthClose  float64
	MonthReturn float64
}

// MonthlyMovers are the ranked gainers and losers of a single month.
type MonthlyMovers struct {
	Month    string
	Top      []MonthlyReturn
	Bottom   []MonthlyReturn
	Combined []MonthlyReturn
}

// SectorReturn is the average annual return of the tickers in a sector. An
// invalid Sector groups the tickers that could not be mapped.
type SectorReturn struct {
	Sector          null.String
	AvgAnnualReturn float64
	Tickers         int
}
