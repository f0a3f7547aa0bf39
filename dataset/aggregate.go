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
package dataset

import (
	"sort"

	"github.com/redflagprofits/rfdata/data"
)

// DailyTotal is one row of the aggregate view consumed by the site
// generator: wealth totals per crawl date, in millions of dollars as
// reported by the feed.
type DailyTotal struct {
	Date          string  `csv:"date"`
	NumRecords    int     `csv:"records"`
	TotalWorth    float64 `csv:"total_worth"`
	AverageWorth  float64 `csv:"average_worth"`
	CPIU          float64 `csv:"cpi_u"`
	PCE           float64 `csv:"pce"`
	HasInflation  bool    `csv:"has_inflation"`
	NumWithAssets int     `csv:"records_with_assets"`
}

// DailyTotals aggregates records per crawl date, sorted chronologically.
// Records in the empty-date bucket are excluded from the aggregate view.
func DailyTotals(records []*data.BillionaireRecord) []*DailyTotal {
	byDate := map[string]*DailyTotal{}

	for _, rec := range records {
		if rec.CrawlDate == "" {
			continue
		}

		total, ok := byDate[rec.CrawlDate]
		if !ok {
			total = &DailyTotal{Date: rec.CrawlDate}
			byDate[rec.CrawlDate] = total
		}

		total.NumRecords++
		if rec.FinalWorth != nil {
			total.TotalWorth += *rec.FinalWorth
		}
		if len(rec.AssetTickers) > 0 {
			total.NumWithAssets++
		}

		if !total.HasInflation && rec.CPIU != nil && rec.PCE != nil {
			total.CPIU = *rec.CPIU
			total.PCE = *rec.PCE
			total.HasInflation = true
		}
	}

	totals := make([]*DailyTotal, 0, len(byDate))
	for _, total := range byDate {
		if total.NumRecords > 0 {
			total.AverageWorth = total.TotalWorth / float64(total.NumRecords)
		}
		totals = append(totals, total)
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals
}
