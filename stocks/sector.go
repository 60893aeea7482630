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
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/guregu/null/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/stat"
)

// ForcedSectorTicker is always assigned ForcedSector, whatever the join says.
const (
	ForcedSectorTicker = "TATACONSUM"
	ForcedSector       = "FMCG"
)

// DefaultSectorOverrides take precedence over the reference table.
var DefaultSectorOverrides = map[string]string{
	"BHARTIARTL": "TELECOM",
	"ADANIENT":   "MISCELLANEOUS",
	"BRITANNIA":  "FMCG",
}

// SectorReference maps a bare ticker (exchange prefix removed) to its sector.
type SectorReference map[string]string

// LoadSectorReference reads the reference table from an http(s) URL or from a
// file on fs. Every failure is returned as a *ReferenceJoinError.
func LoadSectorReference(ctx context.Context, fs afero.Fs, location string) (SectorReference, error) {
	var body io.Reader
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		data, err := downloadReference(ctx, location)
		if err != nil {
			return nil, &ReferenceJoinError{Location: location, Err: err}
		}
		body = bytes.NewReader(data)
	} else {
		fh, err := fs.Open(location)
		if err != nil {
			return nil, &ReferenceJoinError{Location: location, Err: err}
		}
		defer fh.Close()
		body = fh
	}

	ref, err := ParseSectorReference(body)
	if err != nil {
		return nil, &ReferenceJoinError{Location: location, Err: err}
	}

	log.Debug().Str("Location", location).Int("NumSymbols", len(ref)).Msg("loaded sector reference")
	return ref, nil
}

func downloadReference(ctx context.Context, url string) ([]byte, error) {
	client := resty.New()
	log.Debug().Str("Url", url).Msg("Loading URL")
	resp, err := client.
		R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 400 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Url", url).Msg("error when requesting sector reference")
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// ParseSectorReference reads a CSV with `Symbol` and `sector` columns. Symbols
// are exchange prefixed (NSE:TCS); rows without a prefix are ignored and a
// later row wins over an earlier one for the same symbol.
func ParseSectorReference(r io.Reader) (SectorReference, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sector reference")
	}

	symbolCol, sectorCol := -1, -1
	for idx, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "symbol":
			symbolCol = idx
		case "sector":
			sectorCol = idx
		}
	}
	if symbolCol < 0 || sectorCol < 0 {
		return nil, fmt.Errorf("sector reference needs Symbol and sector columns")
	}

	ref := make(SectorReference, len(rows)-1)
	for _, row := range rows[1:] {
		if symbolCol >= len(row) || sectorCol >= len(row) {
			continue
		}
		parts := strings.Split(row[symbolCol], ":")
		if len(parts) < 2 {
			continue
		}
		ref[strings.TrimSpace(parts[1])] = row[sectorCol]
	}

	return ref, nil
}

// AssignSectors returns a copy of metrics with the Sector column joined from
// ref, then the forced sector, then the overrides applied on top.
func AssignSectors(metrics []TickerMetrics, ref SectorReference, overrides map[string]string) []TickerMetrics {
	out := make([]TickerMetrics, len(metrics))
	for idx, m := range metrics {
		ticker := strings.TrimSpace(m.Ticker)
		m.Sector = null.String{}
		if sector, ok := ref[ticker]; ok {
			m.Sector = null.StringFrom(sector)
		}
		if ticker == ForcedSectorTicker {
			m.Sector = null.StringFrom(ForcedSector)
		}
		if sector, ok := overrides[ticker]; ok {
			m.Sector = null.StringFrom(sector)
		}
		out[idx] = m
	}
	return out
}

// MergeOverrides layers extra on top of DefaultSectorOverrides.
func MergeOverrides(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(DefaultSectorOverrides)+len(extra))
	for k, v := range DefaultSectorOverrides {
		merged[k] = v
	}
	for k, v := range extra {
		merged[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return merged
}

// SectorPerformance averages the annual return of the tickers in each sector.
// Sectors appear in first-seen order before sorting; the result is sorted by
// average descending with undefined averages last.
func SectorPerformance(metrics []TickerMetrics) []SectorReturn {
	type group struct {
		sector  null.String
		returns []float64
		tickers int
	}

	order := make([]string, 0)
	groups := make(map[string]*group)
	for _, m := range metrics {
		key := "\x00unmapped"
		if m.Sector.Valid {
			key = m.Sector.String
		}
		g, ok := groups[key]
		if !ok {
			g = &group{sector: m.Sector}
			groups[key] = g
			order = append(order, key)
		}
		g.tickers++
		if !math.IsNaN(m.AnnualReturn) {
			g.returns = append(g.returns, m.AnnualReturn)
		}
	}

	result := make([]SectorReturn, 0, len(order))
	for _, key := range order {
		g := groups[key]
		avg := math.NaN()
		if len(g.returns) > 0 {
			avg = stat.Mean(g.returns, nil)
		}
		result = append(result, SectorReturn{
			Sector:          g.sector,
			AvgAnnualReturn: avg,
			Tickers:         g.tickers,
		})
	}

	return sortedBy(result, func(s SectorReturn) float64 { return s.AvgAnnualReturn }, true)
}

// SectorView loads the reference table and builds the sector performance
// table. A failure only concerns this view.
func SectorView(ctx context.Context, fs afero.Fs, location string, metrics []TickerMetrics, overrides map[string]string) ([]TickerMetrics, []SectorReturn, error) {
	ref, err := LoadSectorReference(ctx, fs, location)
	if err != nil {
		log.Error().Err(err).Str("Location", location).Msg("error loading sector data")
		return nil, nil, err
	}
	assigned := AssignSectors(metrics, ref, overrides)
	return assigned, SectorPerformance(assigned), nil
}
