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
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Config describes where the pipeline reads and writes.
type Config struct {
	Partitions   []Partition
	OutputPath   string
	OutputFormat string
}

func (c Config) fingerprint() string {
	var sb strings.Builder
	for _, p := range c.Partitions {
		fmt.Fprintf(&sb, "%s=%s;", p.Name, p.Location)
	}
	fmt.Fprintf(&sb, "out=%s;fmt=%s", c.OutputPath, c.OutputFormat)
	return sb.String()
}

// Result holds every table the report views read from.
type Result struct {
	Table    UnifiedTable
	Warnings []error
	Metrics  []TickerMetrics
	Returns  *DailyReturnMatrix
	Monthly  []MonthlyReturn
	Movers   []MonthlyMovers
}

// Run loads the partitions, persists the unified table and computes the
// per-ticker and monthly tables. Nothing is computed when the data set is
// empty.
func Run(ctx context.Context, loader *Loader, cfg Config) (*Result, error) {
	table, warnings, err := loader.Load(ctx, cfg.Partitions)
	if err != nil {
		return nil, err
	}

	if cfg.OutputPath != "" {
		if err := saveTable(table, cfg); err != nil {
			warnings = append(warnings, err)
		}
	}

	metrics, returns := ComputeMetrics(table)
	monthly := ComputeMonthlyReturns(table)

	return &Result{
		Table:    table,
		Warnings: warnings,
		Metrics:  metrics,
		Returns:  returns,
		Monthly:  monthly,
		Movers:   RankMonthlyMovers(monthly, DefaultMoversCount),
	}, nil
}

func saveTable(table UnifiedTable, cfg Config) error {
	saver, err := SaverFor(cfg.OutputPath, cfg.OutputFormat)
	if err != nil {
		log.Warn().Err(err).Str("FileName", cfg.OutputPath).Msg("combined data not saved")
		return err
	}
	if err := saver.Save(table, cfg.OutputPath); err != nil {
		log.Warn().Err(err).Str("FileName", cfg.OutputPath).Msg("combined data not saved")
		return fmt.Errorf("save combined data to %s: %w", cfg.OutputPath, err)
	}
	return nil
}

// Session computes the pipeline once and serves the cached result until the
// source configuration changes.
type Session struct {
	loader *Loader

	mu     sync.Mutex
	key    string
	result *Result
}

// NewSession creates a session reading through loader.
func NewSession(loader *Loader) *Session {
	return &Session{loader: loader}
}

// Loader returns the loader the session reads through.
func (s *Session) Loader() *Loader {
	return s.loader
}

// Result returns the cached result for cfg, running the pipeline when nothing
// is cached yet or cfg differs from the cached configuration. Failed runs are
// not cached.
func (s *Session) Result(ctx context.Context, cfg Config) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cfg.fingerprint()
	if s.result != nil && s.key == key {
		log.Debug().Msg("using cached pipeline result")
		return s.result, nil
	}

	result, err := Run(ctx, s.loader, cfg)
	if err != nil {
		return nil, err
	}
	s.key = key
	s.result = result
	return result, nil
}

// Invalidate drops the cached result.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	s.result = nil
}
