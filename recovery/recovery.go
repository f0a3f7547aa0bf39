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

// Package recovery backfills dataset gaps from archived feed captures. A
// run discovers which capture dates the dataset is missing, replays those
// captures, encodes and deduplicates the rows, and commits them in bounded
// batches so a crash loses at most one batch of work.
//
// Recovered records carry no inflation annotations; `rfdata maintain
// --inflation-only` backfills them afterwards.
package recovery

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dataset"
	"github.com/redflagprofits/rfdata/dictionary"
	"github.com/redflagprofits/rfdata/encode"
	"github.com/redflagprofits/rfdata/reconcile"
	"github.com/redflagprofits/rfdata/wayback"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBatchSize is the number of recovered dates committed per
	// dataset rewrite.
	DefaultBatchSize = 20

	// DefaultGroupSize is the number of concurrent snapshot fetches.
	DefaultGroupSize = 4
)

// The archive asks crawlers to stay polite: half a second between fetches
// plus a longer pause every ten.
const (
	fetchInterval  = 500 * time.Millisecond
	restInterval   = 2 * time.Second
	restEveryCount = 10
)

// Source finds and replays archived feed captures.
type Source interface {
	Snapshots(ctx context.Context, startDate, endDate string) (map[string]*wayback.Snapshot, error)
	Fetch(ctx context.Context, snap *wayback.Snapshot) ([]map[string]any, error)
}

type Recoverer struct {
	Source    Source
	Store     *dataset.Store
	Dicts     *dictionary.Table
	BatchSize int
	GroupSize int
}

func New(source Source, store *dataset.Store, dicts *dictionary.Table) *Recoverer {
	return &Recoverer{
		Source:    source,
		Store:     store,
		Dicts:     dicts,
		BatchSize: DefaultBatchSize,
		GroupSize: DefaultGroupSize,
	}
}

// MissingDates returns the snapshots whose capture date is absent from the
// dataset, sorted chronologically.
func MissingDates(available map[string]*wayback.Snapshot, existing map[string]bool) []*wayback.Snapshot {
	missing := make([]*wayback.Snapshot, 0, len(available))
	for date, snap := range available {
		if !existing[date] {
			missing = append(missing, snap)
		}
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i].Date() < missing[j].Date() })
	return missing
}

// Run recovers all missing dates in [startDate, endDate]. With dryRun set
// it only reports what would be fetched and changes nothing.
func (rec *Recoverer) Run(ctx context.Context, startDate, endDate string, dryRun bool) (*data.RunSummary, error) {
	logger := zerolog.Ctx(ctx)
	summary := data.NewRunSummary()

	existing, err := rec.Store.Dates()
	if err != nil {
		return nil, err
	}

	available, err := rec.Source.Snapshots(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	missing := MissingDates(available, existing)
	summary.NumRecords = len(missing)

	logger.Info().Int("NumAvailable", len(available)).Int("NumMissing", len(missing)).
		Str("StartDate", startDate).Str("EndDate", endDate).Msg("snapshot coverage computed")

	if dryRun {
		for i, snap := range missing {
			if i >= 10 {
				logger.Info().Int("NumRemaining", len(missing)-10).Msg("... more dates omitted")
				break
			}
			logger.Info().Str("Date", snap.Date()).Str("URL", snap.URL()).Msg("would recover")
		}

		summary.NumSuccess = len(missing)
		summary.Finish()
		return summary, nil
	}

	limiter := rate.NewLimiter(rate.Every(fetchInterval), 1)
	var fetchCount atomic.Int64

	batchSize := rec.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(missing); start += batchSize {
		end := min(start+batchSize, len(missing))
		batch := missing[start:end]

		recovered := rec.fetchBatch(ctx, batch, limiter, &fetchCount)

		records := []*data.BillionaireRecord{}
		dates := []string{}

		for _, snap := range batch {
			rows, ok := recovered.Get(snap.Date())
			if !ok {
				summary.NumFailed++
				continue
			}

			records = append(records, rec.encodeRows(rows, snap.Date())...)
			dates = append(dates, snap.Date())
		}

		if len(dates) == 0 {
			continue
		}

		if err := rec.Store.MergeDates(records, dates); err != nil {
			logger.Error().Err(err).Int("NumDates", len(dates)).Msg("committing recovered batch failed")
			summary.NumFailed += len(dates)
			continue
		}

		summary.NumSuccess += len(dates)
		logger.Info().Int("NumDates", len(dates)).Int("NumRecords", len(records)).Msg("recovered batch committed")
	}

	if summary.NumSuccess > 0 {
		if err := rec.Dicts.SaveAll(); err != nil {
			logger.Error().Err(err).Msg("saving dictionaries failed")
		}
	}

	summary.Finish()
	return summary, nil
}

// fetchBatch replays every snapshot of a batch, GroupSize at a time,
// collecting raw rows per date. Failed fetches are logged and simply left
// out of the result map.
func (rec *Recoverer) fetchBatch(ctx context.Context, batch []*wayback.Snapshot,
	limiter *rate.Limiter, fetchCount *atomic.Int64,
) *haxmap.Map[string, []map[string]any] {
	logger := zerolog.Ctx(ctx)

	groupSize := rec.GroupSize
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}

	recovered := haxmap.New[string, []map[string]any]()
	sem := make(chan struct{}, groupSize)
	wg := sync.WaitGroup{}

	for _, snap := range batch {
		wg.Add(1)
		sem <- struct{}{}

		go func(snap *wayback.Snapshot) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			rows, err := rec.Source.Fetch(ctx, snap)
			if count := fetchCount.Add(1); count%restEveryCount == 0 {
				time.Sleep(restInterval)
			}

			if err != nil {
				logger.Error().Err(err).Str("Date", snap.Date()).Str("URL", snap.URL()).
					Msg("fetching snapshot failed")
				return
			}

			recovered.Set(snap.Date(), rows)
		}(snap)
	}

	wg.Wait()
	return recovered
}

func (rec *Recoverer) encodeRows(rows []map[string]any, dateStr string) []*data.BillionaireRecord {
	enc := encode.New(rec.Dicts)

	records := make([]*data.BillionaireRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, enc.Record(row, dateStr))
	}

	return reconcile.Dedupe(records)
}
