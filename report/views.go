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
package report

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/penny-vault/stock-dashboard/stocks"
)

func metricsTable(metrics []stocks.TickerMetrics) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{
			"Ticker",
			"Annual Return",
			"Start Price",
			"Close Price",
			"Avg Price",
			"Avg Volume",
			"Std Dev",
			"Cum Return",
		},
	}
	for _, m := range metrics {
		table.Rows = append(table.Rows, []string{
			m.Ticker,
			percent(m.AnnualReturn),
			number(m.StartPrice),
			number(m.ClosePrice),
			number(m.AvgPrice),
			number(m.AvgVolume),
			ratio(m.StdDev),
			ratio(m.CumReturn),
		})
	}
	return table
}

// KeyMetricsMarkdown renders the top gainers and decliners and the market snapshot.
func KeyMetricsMarkdown(km stocks.KeyMetrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(stocks.KeyMetricsView.Title())

	doc.H2("Top 10 Gainers")
	doc.Table(metricsTable(km.TopGainers))

	doc.H2("Top 10 Decliners")
	doc.Table(metricsTable(km.TopDecliners))

	doc.H2("Quick Market Snapshot")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Green vs Red Breakdown"), ""},
		Rows: [][]string{
			{"Total Green Stocks", fmt.Sprint(km.Green)},
			{"Total Red Stocks", fmt.Sprint(km.Red)},
		},
	})

	averages := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Ticker", "Average Price", "Average Daily Volume"},
	}
	for _, m := range km.All {
		averages.Rows = append(averages.Rows, []string{m.Ticker, number(m.AvgPrice), number(m.AvgVolume)})
	}
	doc.Table(averages)

	return doc.String()
}

// VolatilityMarkdown renders the most volatile tickers with a bar per ticker.
func VolatilityMarkdown(metrics []stocks.TickerMetrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(stocks.VolatilityView.Title())
	doc.H2("Top 10 Most Volatile Stocks")

	values := make([]float64, len(metrics))
	for idx, m := range metrics {
		values[idx] = m.StdDev
	}
	scale := maxAbs(values...)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Ticker", "Standard Deviation", ""},
	}
	for _, m := range metrics {
		table.Rows = append(table.Rows, []string{m.Ticker, ratio(m.StdDev), bar(m.StdDev, scale)})
	}
	doc.Table(table)

	return doc.String()
}

// CumulativeReturnMarkdown renders the best cumulative returns.
func CumulativeReturnMarkdown(metrics []stocks.TickerMetrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(stocks.CumulativeReturnView.Title())
	doc.H2("Cumulative Return by Ticker")

	values := make([]float64, len(metrics))
	for idx, m := range metrics {
		values[idx] = m.CumReturn
	}
	scale := maxAbs(values...)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Ticker", "Cumulative Return", "Annual Return", ""},
	}
	for _, m := range metrics {
		table.Rows = append(table.Rows, []string{m.Ticker, ratio(m.CumReturn), percent(m.AnnualReturn), bar(m.CumReturn, scale)})
	}
	doc.Table(table)

	return doc.String()
}

// SectorMarkdown renders the average yearly return per sector, or the error
// that prevented the sector data from loading.
func SectorMarkdown(sectors []stocks.SectorReturn, err error) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(stocks.SectorPerformanceView.Title())
	if err != nil {
		doc.PlainText(md.Bold(err.Error()))
		return doc.String()
	}

	values := make([]float64, len(sectors))
	for idx, s := range sectors {
		values[idx] = s.AvgAnnualReturn
	}
	scale := maxAbs(values...)

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Sector", "Avg Yearly Return", "Tickers", ""},
	}
	for _, s := range sectors {
		name := "(unmapped)"
		if s.Sector.Valid {
			name = s.Sector.String
		}
		table.Rows = append(table.Rows, []string{name, percent(s.AvgAnnualReturn), fmt.Sprint(s.Tickers), bar(s.AvgAnnualReturn, scale)})
	}
	doc.Table(table)

	return doc.String()
}

// CorrelationMarkdown renders the correlation matrix with two decimals.
func CorrelationMarkdown(c *stocks.CorrelationMatrix) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(stocks.CorrelationView.Title())
	if c.Empty() {
		doc.PlainText(md.Bold("No stock data to calculate correlation."))
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft},
		Header:    []string{""},
	}
	for _, t := range c.Tickers {
		table.Alignment = append(table.Alignment, md.AlignRight)
		table.Header = append(table.Header, t)
	}
	for i, t := range c.Tickers {
		row := []string{md.Bold(t)}
		for j := range c.Tickers {
			row = append(row, number(c.At(i, j)))
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	return doc.String()
}

// MonthlyMoversMarkdown renders one ranked table per month. Gainers are
// marked with an up arrow and losers with a down arrow.
func MonthlyMoversMarkdown(movers []stocks.MonthlyMovers) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(stocks.MonthlyMoversView.Title())
	for _, month := range movers {
		doc.H2(fmt.Sprintf("Top 5 Gainers and Losers – %s", monthLabel(month.Month)))

		values := make([]float64, len(month.Combined))
		for idx, r := range month.Combined {
			values[idx] = r.MonthReturn
		}
		scale := maxAbs(values...)

		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
			Header:    []string{"", "Ticker", "Monthly Return", ""},
		}
		for _, r := range month.Combined {
			marker := "▼"
			if r.MonthReturn > 0 {
				marker = "▲"
			}
			table.Rows = append(table.Rows, []string{marker, r.Ticker, percent(r.MonthReturn), bar(r.MonthReturn, scale)})
		}
		doc.Table(table)
	}

	return doc.String()
}
