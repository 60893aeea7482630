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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// TableSaver persists the unified table for external inspection.
type TableSaver interface {
	Save(table UnifiedTable, fn string) error
	Extension() string
}

// NewTableSaver returns the saver for format (csv or parquet), nil when the
// format is not supported.
func NewTableSaver(format string) TableSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// SaverFor picks the saver from format, or from the extension of fn when
// format is empty. CSV is the fallback.
func SaverFor(fn, format string) (TableSaver, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(fn)), ".")
		if format != "parquet" {
			format = "csv"
		}
	}
	s := NewTableSaver(format)
	if s == nil {
		return nil, fmt.Errorf("unsupported output format %q (use: csv, parquet)", format)
	}
	return s, nil
}

var csvHeader = []string{"Ticker", "date", "month", "open", "high", "low", "close", "volume"}

// CSVSaver writes the table with a header row; it can be loaded back as a partition.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(table UnifiedTable, fn string) error {
	fh, err := os.Create(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range table {
		volume := ""
		if r.Volume.Valid {
			volume = floatStr(r.Volume.Float64)
		}
		if err := w.Write([]string{
			r.Ticker,
			r.Date,
			r.Month,
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			volume,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Info().Int("NumRecords", len(table)).Str("FileName", fn).Msg("CSV write finished")
	return nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

type parquetRecord struct {
	Ticker    string   `parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Date      string   `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Month     string   `parquet:"name=month, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Open      float64  `parquet:"name=open, type=DOUBLE"`
	High      float64  `parquet:"name=high, type=DOUBLE"`
	Low       float64  `parquet:"name=low, type=DOUBLE"`
	Close     float64  `parquet:"name=close, type=DOUBLE"`
	Volume    *float64 `parquet:"name=volume, type=DOUBLE, repetitiontype=OPTIONAL"`
	Partition string   `parquet:"name=partition, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// ParquetSaver writes the table as a GZIP compressed parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(table UnifiedTable, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(parquetRecord), 4)
	if err != nil {
		log.Error().Err(err).Msg("Parquet write failed")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_GZIP

	for _, r := range table {
		rec := parquetRecord{
			Ticker:    r.Ticker,
			Date:      r.Date,
			Month:     r.Month,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume.Ptr(),
			Partition: r.Partition,
		}
		if err = pw.Write(&rec); err != nil {
			log.Error().Err(err).
				Str("Date", r.Date).Str("Ticker", r.Ticker).
				Msg("Parquet write failed for record")
			return err
		}
	}

	if err = pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("Parquet write failed")
		return err
	}

	log.Info().Int("NumRecords", len(table)).Str("FileName", fn).Msg("Parquet write finished")
	return nil
}
