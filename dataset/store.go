// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dataset owns the on-disk columnar dataset: one parquet file
// holding every billionaire record, tuned for compression ratio over write
// speed. Writes are whole-file rewrite-and-rename; a failed write never
// disturbs the previously persisted file. Single-writer is assumed, not
// enforced.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/redflagprofits/rfdata/data"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

var ErrNoDataset = errors.New("dataset file does not exist")

const (
	rowGroupSize = 128 * 1024 * 1024
	pageSize     = 1024 * 1024
)

type Store struct {
	Filename string
}

func New(filename string) *Store {
	return &Store{Filename: filename}
}

func (store *Store) Exists() bool {
	_, err := os.Stat(store.Filename)
	return err == nil
}

// ReadAll loads the entire persisted dataset into memory. Callers that can
// legitimately run before the first write should check Exists first and
// treat ErrNoDataset accordingly.
func (store *Store) ReadAll() ([]*data.BillionaireRecord, error) {
	if !store.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNoDataset, store.Filename)
	}

	fr, err := local.NewLocalFileReader(store.Filename)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(data.BillionaireRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("open parquet reader: %w", err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows := make([]data.BillionaireRecord, num)
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read dataset rows: %w", err)
	}

	records := make([]*data.BillionaireRecord, num)
	for i := range rows {
		records[i] = &rows[i]
	}

	return records, nil
}

// Dates returns the set of crawl dates already present in the dataset. A
// missing dataset yields an empty set, not an error: recovery treats "no
// file yet" as zero coverage.
func (store *Store) Dates() (map[string]bool, error) {
	dates := map[string]bool{}

	if !store.Exists() {
		return dates, nil
	}

	records, err := store.ReadAll()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		dates[rec.CrawlDate] = true
	}

	return dates, nil
}

// Merge commits a new batch for a single crawl date. Any rows already
// stored for that date are replaced wholesale; all other dates are
// untouched.
func (store *Store) Merge(records []*data.BillionaireRecord, dateStr string) error {
	return store.MergeDates(records, []string{dateStr})
}

// MergeDates commits a batch covering several crawl dates in one
// read-modify-rewrite. Every listed date is replaced wholesale by the rows
// for it in records; recovery uses this to bound the number of full-file
// rewrites per run.
func (store *Store) MergeDates(records []*data.BillionaireRecord, dates []string) error {
	replacing := make(map[string]bool, len(dates))
	for _, date := range dates {
		replacing[date] = true
	}

	var combined []*data.BillionaireRecord

	if store.Exists() {
		existing, err := store.ReadAll()
		if err != nil {
			return err
		}

		combined = make([]*data.BillionaireRecord, 0, len(existing)+len(records))
		for _, rec := range existing {
			if !replacing[rec.CrawlDate] {
				combined = append(combined, rec)
			}
		}
		combined = append(combined, records...)
	} else {
		// first write: the batch becomes the dataset
		combined = records
	}

	return store.Rewrite(combined)
}

// Rewrite replaces the whole dataset with the given records, sorted by
// (year, month, day, personName) for compression locality.
func (store *Store) Rewrite(records []*data.BillionaireRecord) error {
	sortRecords(records)

	tmpFn := store.Filename + ".tmp"
	if err := writeParquet(tmpFn, records); err != nil {
		if rmErr := os.Remove(tmpFn); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("FileName", tmpFn).Msg("could not remove temporary dataset file")
		}
		return err
	}

	if err := os.Rename(tmpFn, store.Filename); err != nil {
		return fmt.Errorf("replace dataset file: %w", err)
	}

	log.Info().Int("NumRecords", len(records)).Str("FileName", store.Filename).Msg("dataset written")
	return nil
}

func sortRecords(records []*data.BillionaireRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.PersonName < b.PersonName
	})
}

func writeParquet(fn string, records []*data.BillionaireRecord) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(data.BillionaireRecord), 4)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}

	pw.RowGroupSize = rowGroupSize
	pw.PageSize = pageSize
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, rec := range records {
		if err := pw.Write(rec); err != nil {
			return fmt.Errorf("write record %q: %w", rec.Key(), err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}

	return nil
}
