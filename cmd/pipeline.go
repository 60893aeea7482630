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
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/penny-vault/stock-dashboard/report"
	"github.com/penny-vault/stock-dashboard/stocks"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// pipelineConfig builds the pipeline configuration from viper. Without an
// explicit partition list every subdirectory of data.dir is loaded.
func pipelineConfig(fs afero.Fs) (stocks.Config, error) {
	dir := viper.GetString("data.dir")
	partitions := stocks.PartitionsIn(dir, viper.GetStringSlice("data.partitions"))
	if len(partitions) == 0 {
		var err error
		if partitions, err = stocks.DiscoverPartitions(fs, dir); err != nil {
			return stocks.Config{}, fmt.Errorf("list partitions in %s: %w", dir, err)
		}
		log.Debug().Str("DataDir", dir).Int("NumPartitions", len(partitions)).Msg("using every folder in data dir")
	}
	return stocks.Config{
		Partitions:   partitions,
		OutputPath:   viper.GetString("output.path"),
		OutputFormat: viper.GetString("output.format"),
	}, nil
}

// selectedViews resolves view names; "all" selects every view.
func selectedViews(names []string) ([]stocks.View, error) {
	if len(names) == 0 {
		return []stocks.View{stocks.KeyMetricsView}, nil
	}
	views := make([]stocks.View, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			return stocks.AllViews(), nil
		}
		v, err := stocks.ParseView(name)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// renderView builds the markdown of a single view. Only an invalid
// configuration is returned as an error; a sector reference that fails to
// load is rendered inside the sector view.
func renderView(ctx context.Context, fs afero.Fs, result *stocks.Result, view stocks.View) (string, error) {
	switch view {
	case stocks.KeyMetricsView:
		return report.KeyMetricsMarkdown(stocks.BuildKeyMetrics(result.Metrics)), nil
	case stocks.VolatilityView:
		return report.VolatilityMarkdown(stocks.MostVolatile(result.Metrics)), nil
	case stocks.CumulativeReturnView:
		return report.CumulativeReturnMarkdown(stocks.TopCumulativeReturn(result.Metrics)), nil
	case stocks.SectorPerformanceView:
		location := viper.GetString("sectors.reference")
		if location == "" {
			return report.SectorMarkdown(nil, fmt.Errorf("no sector reference configured (set sectors.reference)")), nil
		}
		overrides := stocks.MergeOverrides(viper.GetStringMapString("sector.overrides"))
		_, sectors, err := stocks.SectorView(ctx, fs, location, result.Metrics, overrides)
		return report.SectorMarkdown(sectors, err), nil
	case stocks.CorrelationView:
		align, err := stocks.ParseAlignment(viper.GetString("correlation.align"))
		if err != nil {
			return "", err
		}
		return report.CorrelationMarkdown(result.Returns.Correlation(align)), nil
	case stocks.MonthlyMoversView:
		return report.MonthlyMoversMarkdown(result.Movers), nil
	default:
		return "", fmt.Errorf("unknown view %v", view)
	}
}
