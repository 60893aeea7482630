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
	"errors"
	"math"
	"testing"

	"github.com/spf13/afero"
)

func yamlDay(ticker, date string, open, close float64) string {
	return "- Ticker: " + ticker + "\n" +
		"  date: '" + date + "'\n" +
		"  open: " + floatStr(open) + "\n" +
		"  close: " + floatStr(close) + "\n" +
		"  volume: 1000\n"
}

func seedPartitions(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/data/2023-10/2023-10-02.yaml",
		yamlDay("SBIN", "2023-10-02", 10, 12)+yamlDay("TCS", "2023-10-02", 100, 101))
	writeFile(t, fs, "/data/2023-10/2023-10-03.yaml",
		yamlDay("SBIN", "2023-10-03", 12, 9))
	writeFile(t, fs, "/data/2023-10/broken.yaml", "- Ticker: [unterminated\n")
	writeFile(t, fs, "/data/2023-11/2023-11-01.csv",
		"Ticker,date,month,open,close,volume\nSBIN,2023-11-01,2023-11,9,10,2000\nTCS,2023-11-01,2023-11,101,99,\nINFY,2023-11-01,2023-11,50,55,300\n")
	writeFile(t, fs, "/data/2023-11/readme.txt", "not data")
	return fs
}

func TestLoadConcatenatesPartitions(t *testing.T) {
	fs := seedPartitions(t)
	loader := NewLoader(fs, 0)

	table, warnings, err := loader.Load(context.Background(), PartitionsIn("/data", []string{"2023-10", "2023-11"}))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	// 2 + 1 rows from the october files, 3 from november; broken.yaml is skipped
	if len(table) != 6 {
		t.Errorf("Load() got %d rows, want 6", len(table))
	}

	if len(warnings) != 1 {
		t.Fatalf("Load() got %d warnings, want 1: %v", len(warnings), warnings)
	}
	var parseErr *SourceParseError
	if !errors.As(warnings[0], &parseErr) {
		t.Fatalf("Load() warning is %T, want *SourceParseError", warnings[0])
	}
	if parseErr.Path != "/data/2023-10/broken.yaml" || parseErr.Partition != "2023-10" {
		t.Errorf("Load() parse error = %+v", parseErr)
	}

	wantOrder := []string{"SBIN", "TCS", "SBIN", "SBIN", "TCS", "INFY"}
	for idx, want := range wantOrder {
		if table[idx].Ticker != want {
			t.Errorf("row %d ticker = %s, want %s", idx, table[idx].Ticker, want)
		}
	}
	if table[0].Partition != "2023-10" || table[5].Partition != "2023-11" {
		t.Errorf("Load() partitions not recorded: %q, %q", table[0].Partition, table[5].Partition)
	}
}

func TestLoadEmptyPartitionWarning(t *testing.T) {
	fs := seedPartitions(t)
	loader := NewLoader(fs, 0)

	table, warnings, err := loader.Load(context.Background(), PartitionsIn("/data", []string{"2023-11", "2023-12"}))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(table) != 3 {
		t.Errorf("Load() got %d rows, want 3", len(table))
	}

	var empty *EmptyPartitionWarning
	if len(warnings) != 1 || !errors.As(warnings[0], &empty) {
		t.Fatalf("Load() warnings = %v, want one *EmptyPartitionWarning", warnings)
	}
	if empty.Partition != "2023-12" {
		t.Errorf("empty partition = %s, want 2023-12", empty.Partition)
	}
}

func TestLoadAllPartitionsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/data/2024-01/bad.yaml", "{{{")
	loader := NewLoader(fs, 0)

	table, warnings, err := loader.Load(context.Background(), PartitionsIn("/data", []string{"2024-01", "2024-02"}))
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("Load() error = %v, want ErrEmptyDataset", err)
	}
	if table != nil {
		t.Errorf("Load() returned %d rows with an empty dataset", len(table))
	}
	// one parse failure and two empty partitions
	if len(warnings) != 3 {
		t.Errorf("Load() got %d warnings, want 3", len(warnings))
	}
}

func TestLoadEmptyFilesAreFatal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/data/2024-01/empty.yaml", "")
	loader := NewLoader(fs, 0)

	_, warnings, err := loader.Load(context.Background(), PartitionsIn("/data", []string{"2024-01"}))
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("Load() error = %v, want ErrEmptyDataset", err)
	}
	if len(warnings) != 0 {
		t.Errorf("an empty file parses fine, got warnings %v", warnings)
	}
}

func TestLoadCancelled(t *testing.T) {
	fs := seedPartitions(t)
	loader := NewLoader(fs, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := loader.Load(ctx, PartitionsIn("/data", []string{"2023-10"})); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	fs := seedPartitions(t)
	partitions := PartitionsIn("/data", []string{"2023-10", "2023-11"})

	first, _, err := NewLoader(fs, 0).Load(context.Background(), partitions)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	second, _, err := NewLoader(fs, 0).Load(context.Background(), partitions)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("row count changed between runs: %d != %d", len(first), len(second))
	}

	m1, _ := ComputeMetrics(first)
	m2, _ := ComputeMetrics(second)
	if len(m1) != len(m2) {
		t.Fatalf("ticker count changed between runs: %d != %d", len(m1), len(m2))
	}
	for idx := range m1 {
		a, b := m1[idx], m2[idx]
		pairs := [][2]float64{
			{a.AnnualReturn, b.AnnualReturn},
			{a.AvgPrice, b.AvgPrice},
			{a.AvgVolume, b.AvgVolume},
			{a.StdDev, b.StdDev},
			{a.CumReturn, b.CumReturn},
		}
		for _, p := range pairs {
			if math.Float64bits(p[0]) != math.Float64bits(p[1]) {
				t.Errorf("%s metrics differ between runs: %v != %v", a.Ticker, p[0], p[1])
			}
		}
	}
}

func TestPartitionsIn(t *testing.T) {
	partitions := PartitionsIn("/data", []string{"2023-10", "/mnt/2023-11"})
	if partitions[0].Location != "/data/2023-10" || partitions[0].Name != "2023-10" {
		t.Errorf("relative partition = %+v", partitions[0])
	}
	if partitions[1].Location != "/mnt/2023-11" {
		t.Errorf("absolute partition = %+v", partitions[1])
	}
}

func TestDiscoverPartitions(t *testing.T) {
	fs := seedPartitions(t)
	writeFile(t, fs, "/data/notes.txt", "not a partition")

	partitions, err := DiscoverPartitions(fs, "/data")
	if err != nil {
		t.Fatalf("DiscoverPartitions() unexpected error: %v", err)
	}
	want := []Partition{
		{Name: "2023-10", Location: "/data/2023-10"},
		{Name: "2023-11", Location: "/data/2023-11"},
	}
	if len(partitions) != len(want) {
		t.Fatalf("DiscoverPartitions() = %+v, want %+v", partitions, want)
	}
	for idx := range want {
		if partitions[idx] != want[idx] {
			t.Errorf("partition %d = %+v, want %+v", idx, partitions[idx], want[idx])
		}
	}

	if _, err := DiscoverPartitions(fs, "/missing"); err == nil {
		t.Errorf("DiscoverPartitions(/missing) expected an error")
	}
}
