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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guregu/null/v5"
	"gopkg.in/yaml.v3"
)

// Parser turns the content of one data file into price records.
type Parser func(r io.Reader) ([]PriceRecord, error)

var parsers = map[string]Parser{
	".yaml": ParseYAML,
	".yml":  ParseYAML,
	".csv":  ParseCSV,
}

// ParserFor returns the parser registered for the extension of fn.
func ParserFor(fn string) (Parser, bool) {
	p, ok := parsers[strings.ToLower(filepath.Ext(fn))]
	return p, ok
}

type yamlRecord struct {
	Ticker string   `yaml:"Ticker"`
	Date   string   `yaml:"date"`
	Month  string   `yaml:"month"`
	Open   *float64 `yaml:"open"`
	High   float64  `yaml:"high"`
	Low    float64  `yaml:"low"`
	Close  *float64 `yaml:"close"`
	Volume *float64 `yaml:"volume"`
}

// ParseYAML reads a YAML sequence of daily records. An empty document yields
// no records and no error.
func ParseYAML(r io.Reader) ([]PriceRecord, error) {
	var raw []yamlRecord
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	records := make([]PriceRecord, 0, len(raw))
	for idx, rr := range raw {
		if rr.Ticker == "" {
			return nil, fmt.Errorf("record %d has no ticker", idx)
		}
		if rr.Open == nil || rr.Close == nil {
			return nil, fmt.Errorf("record %d (%s %s) is missing its open or close price", idx, rr.Ticker, rr.Date)
		}
		records = append(records, PriceRecord{
			Ticker: rr.Ticker,
			Date:   rr.Date,
			Month:  monthOf(rr.Month, rr.Date),
			Open:   *rr.Open,
			High:   rr.High,
			Low:    rr.Low,
			Close:  *rr.Close,
			Volume: null.FloatFromPtr(rr.Volume),
		})
	}

	return records, nil
}

// ParseCSV reads records from a CSV file with a header row. Column names are
// matched case-insensitively; ticker, open and close are required.
func ParseCSV(r io.Reader) ([]PriceRecord, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []PriceRecord{}, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	for _, required := range []string{"ticker", "open", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	number := func(row []string, name string, line int) (float64, error) {
		s := field(row, name)
		if s == "" {
			return 0, nil
		}
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: column %s: %w", line, name, err)
		}
		return val, nil
	}

	records := make([]PriceRecord, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		line := idx + 2
		rec := PriceRecord{
			Ticker: field(row, "ticker"),
			Date:   field(row, "date"),
		}
		if rec.Ticker == "" {
			return nil, fmt.Errorf("line %d has no ticker", line)
		}
		rec.Month = monthOf(field(row, "month"), rec.Date)
		if field(row, "open") == "" || field(row, "close") == "" {
			return nil, fmt.Errorf("line %d is missing its open or close price", line)
		}
		if rec.Open, err = number(row, "open", line); err != nil {
			return nil, err
		}
		if rec.High, err = number(row, "high", line); err != nil {
			return nil, err
		}
		if rec.Low, err = number(row, "low", line); err != nil {
			return nil, err
		}
		if rec.Close, err = number(row, "close", line); err != nil {
			return nil, err
		}
		if s := field(row, "volume"); s != "" {
			vol, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column volume: %w", line, err)
			}
			rec.Volume = null.FloatFrom(vol)
		}
		records = append(records, rec)
	}

	return records, nil
}

// monthOf falls back to the YYYY-MM prefix of the date when no month is given.
func monthOf(month, date string) string {
	if month != "" {
		return month
	}
	if len(date) >= 7 {
		return date[:7]
	}
	return ""
}
