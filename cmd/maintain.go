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
package cmd

import (
	"context"

	"github.com/redflagprofits/rfdata/data"
	"github.com/redflagprofits/rfdata/dataset"
	"github.com/redflagprofits/rfdata/fred"
	"github.com/redflagprofits/rfdata/reconcile"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	maintainDuplicatesOnly bool
	maintainInflationOnly  bool
)

// maintainCmd represents the maintain command
var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Reconcile duplicates and backfill inflation annotations",
	Long: `The maintain sub-command repairs the dataset in place: it merges records
that share a (crawl date, person) key and fills in missing CPI-U and PCE
values for dates that have none. By default both passes run; use
--duplicates-only or --inflation-only to restrict the work.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		store := dataset.New(viper.GetString("dataset.path"))
		records, err := store.ReadAll()
		if err != nil {
			log.Fatal().Err(err).Msg("could not read dataset")
		}

		changed := false

		if !maintainInflationOnly {
			before := len(records)
			records = reconcile.Dedupe(records)
			if len(records) != before {
				log.Info().Int("NumBefore", before).Int("NumAfter", len(records)).Msg("merged duplicate records")
				changed = true
			} else {
				log.Info().Int("NumRecords", before).Msg("no duplicate records found")
			}
		}

		if !maintainDuplicatesOnly {
			if backfillInflation(ctx, records) {
				changed = true
			}
		}

		if !changed {
			log.Info().Msg("dataset already clean, nothing to write")
			return
		}

		if err := store.Rewrite(records); err != nil {
			log.Fatal().Err(err).Msg("rewriting dataset failed")
		}
	},
}

// backfillInflation fills CPI-U and PCE for every date whose records have
// no annotation yet. One FRED lookup covers all records of a date.
func backfillInflation(ctx context.Context, records []*data.BillionaireRecord) bool {
	fredClient := fred.New()
	if !fredClient.Enabled() {
		log.Warn().Msg("no FRED api key configured, skipping inflation backfill")
		return false
	}

	byDate := map[string][]*data.BillionaireRecord{}
	for _, rec := range records {
		if rec.CrawlDate == "" || rec.CPIU != nil {
			continue
		}
		byDate[rec.CrawlDate] = append(byDate[rec.CrawlDate], rec)
	}

	if len(byDate) == 0 {
		log.Info().Msg("all dates already annotated with inflation data")
		return false
	}

	log.Info().Int("NumDates", len(byDate)).Msg("backfilling inflation annotations")

	changed := false
	for date, dateRecords := range byDate {
		cpi, pce := fredClient.Lookup(ctx, date)
		if cpi == nil && pce == nil {
			log.Warn().Str("Date", date).Msg("no inflation data available for date")
			continue
		}

		for _, rec := range dateRecords {
			rec.CPIU = cpi
			rec.PCE = pce
		}
		changed = true
	}

	return changed
}

func init() {
	rootCmd.AddCommand(maintainCmd)

	maintainCmd.Flags().BoolVar(&maintainDuplicatesOnly, "duplicates-only", false, "only merge duplicate records")
	maintainCmd.Flags().BoolVar(&maintainInflationOnly, "inflation-only", false, "only backfill inflation annotations")
	maintainCmd.MarkFlagsMutuallyExclusive("duplicates-only", "inflation-only")
}
