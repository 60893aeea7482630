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
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/ratelimit"
)

// Patterns are the file globs scanned in every partition.
var Patterns = []string{"*.yaml", "*.yml", "*.csv"}

// Partition is a named directory of data files, typically one per month.
type Partition struct {
	Name     string
	Location string
}

// PartitionsIn resolves partition names relative to dir. Absolute names are
// used as is.
func PartitionsIn(dir string, names []string) []Partition {
	partitions := make([]Partition, 0, len(names))
	for _, name := range names {
		loc := name
		if !filepath.IsAbs(name) {
			loc = filepath.Join(dir, name)
		}
		partitions = append(partitions, Partition{Name: name, Location: loc})
	}
	return partitions
}

// DiscoverPartitions returns one partition per subdirectory of dir, sorted by
// name.
func DiscoverPartitions(fs afero.Fs, dir string) ([]Partition, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return PartitionsIn(dir, names), nil
}

// Loader reads partitions into a UnifiedTable.
type Loader struct {
	Fs       afero.Fs
	Limiter  ratelimit.Limiter
	Progress bool
}

// NewLoader creates a loader that reads without throttling. A filesPerSecond
// greater than zero limits how fast files are opened.
func NewLoader(fs afero.Fs, filesPerSecond int) *Loader {
	limiter := ratelimit.NewUnlimited()
	if filesPerSecond > 0 {
		limiter = ratelimit.New(filesPerSecond)
	}
	return &Loader{
		Fs:      fs,
		Limiter: limiter,
	}
}

type partitionFiles struct {
	partition Partition
	files     []string
}

// Load parses every data file of every partition and concatenates the result.
// Files that fail to parse and partitions without any parsed file are reported
// in warnings. ErrEmptyDataset is returned when nothing was loaded at all.
func (l *Loader) Load(ctx context.Context, partitions []Partition) (UnifiedTable, []error, error) {
	warnings := make([]error, 0)

	listing := make([]partitionFiles, 0, len(partitions))
	total := 0
	for _, p := range partitions {
		files, err := l.discover(p.Location)
		if err != nil {
			return nil, warnings, err
		}
		log.Info().Str("Partition", p.Name).Int("NumFiles", len(files)).Msg("processing partition")
		listing = append(listing, partitionFiles{partition: p, files: files})
		total += len(files)
	}

	var bar *progressbar.ProgressBar
	if l.Progress {
		bar = progressbar.Default(int64(total), "loading")
	}

	tables := make([]UnifiedTable, 0, len(listing))
	for _, pf := range listing {
		table, warns, err := l.loadPartition(ctx, pf, bar)
		if err != nil {
			return nil, warnings, err
		}
		warnings = append(warnings, warns...)
		tables = append(tables, table)
	}

	unified := concat(tables...)
	if len(unified) == 0 {
		log.Error().Int("NumPartitions", len(partitions)).Msg("no data found in any partition")
		return nil, warnings, ErrEmptyDataset
	}

	log.Info().Int("NumRecords", len(unified)).Int("NumWarnings", len(warnings)).Msg("combined records")
	return unified, warnings, nil
}

func (l *Loader) discover(location string) ([]string, error) {
	files := make([]string, 0)
	for _, pattern := range Patterns {
		matches, err := afero.Glob(l.Fs, filepath.Join(location, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func (l *Loader) loadPartition(ctx context.Context, pf partitionFiles, bar *progressbar.ProgressBar) (UnifiedTable, []error, error) {
	subLog := log.With().Str("Partition", pf.partition.Name).Logger()
	warnings := make([]error, 0)
	parts := make([]UnifiedTable, 0, len(pf.files))

	for _, fn := range pf.files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if bar != nil {
			bar.Add(1)
		}

		records, err := l.parseFile(fn)
		if err != nil {
			subLog.Warn().Err(err).Str("FileName", fn).Msg("skipping file that could not be parsed")
			warnings = append(warnings, &SourceParseError{Partition: pf.partition.Name, Path: fn, Err: err})
			continue
		}
		for idx := range records {
			records[idx].Partition = pf.partition.Name
			records[idx].Source = fn
		}
		parts = append(parts, records)
	}

	if len(parts) == 0 {
		subLog.Warn().Str("Location", pf.partition.Location).Msg("no valid data files found")
		warnings = append(warnings, &EmptyPartitionWarning{Partition: pf.partition.Name, Location: pf.partition.Location})
		return UnifiedTable{}, warnings, nil
	}

	return concat(parts...), warnings, nil
}

func (l *Loader) parseFile(fn string) ([]PriceRecord, error) {
	parse, ok := ParserFor(fn)
	if !ok {
		return nil, errUnsupportedFile
	}

	l.Limiter.Take()
	fh, err := l.Fs.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return parse(fh)
}

// concat folds tables into a newly allocated table.
func concat(tables ...UnifiedTable) UnifiedTable {
	size := 0
	for _, t := range tables {
		size += len(t)
	}
	out := make(UnifiedTable, 0, size)
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}
