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
	"sort"
)

// DefaultMoversCount is the number of gainers and losers ranked per month.
const DefaultMoversCount = 5

// ComputeMonthlyReturns computes the open-to-close return of every
// (ticker, month) pair. Tickers keep their first-seen order and the months of
// a ticker are visited in ascending order. The open is taken from the first
// row of the month and the close from its last row, in table order.
func ComputeMonthlyReturns(table UnifiedTable) []MonthlyReturn {
	tickers, groups := table.GroupByTicker()
	returns := make([]MonthlyReturn, 0)

	for _, ticker := range tickers {
		rows := groups[ticker]
		if len(rows) == 0 {
			continue
		}

		months := make([]string, 0)
		byMonth := make(map[string][]PriceRecord)
		for _, r := range rows {
			if _, ok := byMonth[r.Month]; !ok {
				months = append(months, r.Month)
			}
			byMonth[r.Month] = append(byMonth[r.Month], r)
		}
		sort.Strings(months)

		for _, month := range months {
			monthRows := byMonth[month]
			monthOpen := monthRows[0].Open
			monthClose := monthRows[len(monthRows)-1].Close
			returns = append(returns, MonthlyReturn{
				Ticker:      ticker,
				Month:       month,
				MonthOpen:   monthOpen,
				MonthClose:  monthClose,
				MonthReturn: monthReturn(monthOpen, monthClose),
			})
		}
	}

	return returns
}

func monthReturn(monthOpen, monthClose float64) float64 {
	if monthOpen == 0 {
		return math.NaN()
	}
	return (monthClose - monthOpen) / monthOpen
}

// RankMonthlyMovers ranks, for every month in ascending order, the n best
// returns and up to n negative returns. Losers are never padded with gainers.
func RankMonthlyMovers(returns []MonthlyReturn, n int) []MonthlyMovers {
	months := make([]string, 0)
	byMonth := make(map[string][]MonthlyReturn)
	for _, r := range returns {
		if _, ok := byMonth[r.Month]; !ok {
			months = append(months, r.Month)
		}
		byMonth[r.Month] = append(byMonth[r.Month], r)
	}
	sort.Strings(months)

	key := func(r MonthlyReturn) float64 { return r.MonthReturn }

	movers := make([]MonthlyMovers, 0, len(months))
	for _, month := range months {
		rows := byMonth[month]
		if len(rows) == 0 {
			continue
		}

		top := head(sortedBy(rows, key, true), n)

		losers := make([]MonthlyReturn, 0)
		for _, r := range rows {
			if r.MonthReturn < 0 {
				losers = append(losers, r)
			}
		}
		bottom := head(sortedBy(losers, key, false), n)

		combined := make([]MonthlyReturn, 0, len(top)+len(bottom))
		combined = append(combined, top...)
		combined = append(combined, bottom...)

		movers = append(movers, MonthlyMovers{
			Month:    month,
			Top:      top,
			Bottom:   bottom,
			Combined: combined,
		})
	}

	return movers
}
